package models

import (
	"testing"
)

func TestIsValidFuelType(t *testing.T) {
	tests := []struct {
		name     string
		fuel     FuelType
		expected bool
	}{
		{"petrol", FuelPetrol, true},
		{"diesel", FuelDiesel, true},
		{"electric", FuelElectric, true},
		{"hybrid", FuelHybrid, true},
		{"cng", FuelCNG, true},
		{"lowercase petrol", "petrol", false},
		{"hydrogen", "Hydrogen", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidFuelType(tt.fuel)
			if result != tt.expected {
				t.Errorf("IsValidFuelType(%s) = %v, want %v", tt.fuel, result, tt.expected)
			}
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile("user-1")
	if p.UserID != "user-1" {
		t.Errorf("expected user id user-1, got %s", p.UserID)
	}
	if p.Points != 0 {
		t.Errorf("expected 0 points, got %d", p.Points)
	}
	if p.Name != "Eco Warrior" {
		t.Errorf("expected default name, got %s", p.Name)
	}
}
