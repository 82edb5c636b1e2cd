// Package routes produces candidate routes for an origin/destination pair.
package routes

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/models"
)

// DefaultDelay simulates the latency of a real routing backend.
const DefaultDelay = 1500 * time.Millisecond

// Option ids returned by the mock generator.
const (
	EcoRouteID     = "route_eco"
	FastRouteID    = "route_fast"
	SpecialRouteID = "route_special"
)

// Generator is the source of route options. A real routing, traffic and
// air-quality service replaces MockGenerator behind this interface.
type Generator interface {
	Search(ctx context.Context, from, to string) ([]models.RouteOption, error)
}

// MockGenerator returns three synthetic options after a fixed delay.
type MockGenerator struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockGenerator creates a generator with the given delay and a time-seeded source.
func NewMockGenerator(delay time.Duration) *MockGenerator {
	return NewMockGeneratorWithSource(delay, rand.NewSource(time.Now().UnixNano()))
}

// NewMockGeneratorWithSource creates a generator with an explicit random source.
func NewMockGeneratorWithSource(delay time.Duration, src rand.Source) *MockGenerator {
	return &MockGenerator{delay: delay, rnd: rand.New(src)}
}

// Search waits for the configured delay and returns the eco, fastest and
// hybrid options. from and to are not validated. The only error is the
// caller's context ending during the delay.
func (g *MockGenerator) Search(ctx context.Context, from, to string) ([]models.RouteOption, error) {
	log.WithFields(log.Fields{"from": from, "to": to}).Debug("Fetching mock routes")

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return []models.RouteOption{g.ecoRoute(), g.fastRoute(), g.specialRoute()}, nil
}

func (g *MockGenerator) ecoRoute() models.RouteOption {
	return models.RouteOption{
		ID:               EcoRouteID,
		Name:             "Eco-Friendly Route",
		Category:         models.RouteEco,
		Icon:             "leaf",
		Color:            "green",
		TimeMinutes:      g.randInt(35, 42),
		DistanceKm:       g.randTenths(10.0, 11.0),
		CarbonKg:         g.randTenths(1.8, 2.2),
		AQI:              g.randInt(70, 85),
		EVStationCount:   5,
		FuelStationCount: 3,
		HasToll:          false,
		ConstructionNote: strPtr("Minor roadwork near Domlur."),
		HealthImpactText: "Moderate pollution. Good for most.",
		SpeedAdviceText:  "Maintain 30-40 km/h for best fuel economy.",
		CabFareEstimate:  g.randFare(180, 220),
		RewardPoints:     20,
	}
}

func (g *MockGenerator) fastRoute() models.RouteOption {
	toll := decimal.NewFromInt(45)
	return models.RouteOption{
		ID:               FastRouteID,
		Name:             "Fastest Route (Toll)",
		Category:         models.RouteFast,
		Icon:             "clock",
		Color:            "blue",
		TimeMinutes:      g.randInt(25, 30),
		DistanceKm:       g.randTenths(12.5, 13.0),
		CarbonKg:         g.randTenths(3.1, 3.5),
		AQI:              g.randInt(90, 110),
		EVStationCount:   2,
		FuelStationCount: 4,
		HasToll:          true,
		TollCost:         &toll,
		HealthImpactText: "Higher pollution. Keep windows up if sensitive.",
		SpeedAdviceText:  "Follow posted speed limits (50-60 km/h) for best time.",
		CabFareEstimate:  g.randFare(240, 280),
		RewardPoints:     5,
	}
}

func (g *MockGenerator) specialRoute() models.RouteOption {
	return models.RouteOption{
		ID:               SpecialRouteID,
		Name:             "Special Hybrid Route",
		Category:         models.RouteHybrid,
		Icon:             "bus",
		Color:            "purple",
		TimeMinutes:      g.randInt(30, 35),
		DistanceKm:       g.randTenths(11.8, 12.5), // drive + transit
		CarbonKg:         g.randTenths(1.0, 1.3),
		AQI:              g.randInt(75, 85),
		EVStationCount:   1, // at the parking lot
		FuelStationCount: 1,
		HasToll:          false,
		HealthImpactText: "Low pollution, involves walking.",
		SpeedAdviceText:  "Drive 6km to Metro, then 15 min ride.",
		SpecialInfo:      strPtr("Drive 6 km to Indiranagar Metro. Park vehicle (Est. parking ₹50). Take Purple Line (15 min). Walk 2 min to destination."),
		// a cab fare is meaningless for a multimodal trip
		CabFareEstimate: nil,
		RewardPoints:    30,
	}
}

func (g *MockGenerator) uniform(min, max float64) float64 {
	return min + g.rnd.Float64()*(max-min)
}

// randInt floors a continuous draw from [min, max).
func (g *MockGenerator) randInt(min, max int) int {
	return int(math.Floor(g.uniform(float64(min), float64(max))))
}

// randTenths rounds a continuous draw to one decimal place.
func (g *MockGenerator) randTenths(min, max float64) float64 {
	return math.Round(g.uniform(min, max)*10) / 10
}

func (g *MockGenerator) randFare(min, max int) *decimal.Decimal {
	fare := decimal.NewFromInt(int64(g.randInt(min, max)))
	return &fare
}

func strPtr(s string) *string { return &s }
