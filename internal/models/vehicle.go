package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelType is the energy source of a garage vehicle.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
	FuelCNG      FuelType = "CNG"
)

// IsValidFuelType checks if a fuel type is one of the supported values.
func IsValidFuelType(f FuelType) bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid, FuelCNG:
		return true
	default:
		return false
	}
}

// GarageVehicle is a vehicle saved in a user's private garage.
type GarageVehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Model        string             `bson:"model" json:"model"`
	Year         *int               `bson:"year,omitempty" json:"year,omitempty"`
	Mileage      *float64           `bson:"mileage,omitempty" json:"mileage,omitempty"` // km per liter
	FuelType     FuelType           `bson:"fuel_type" json:"fuel_type"`
	CarbonGPerKm *float64           `bson:"carbon_g_per_km,omitempty" json:"carbon_g_per_km,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// AddVehicleRequest is the body of a garage add request.
type AddVehicleRequest struct {
	Model        string   `json:"model"`
	Year         *int     `json:"year,omitempty"`
	Mileage      *float64 `json:"mileage,omitempty"`
	FuelType     FuelType `json:"fuel_type"`
	CarbonGPerKm *float64 `json:"carbon_g_per_km,omitempty"`
}
