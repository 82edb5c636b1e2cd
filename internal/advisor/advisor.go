// Package advisor holds the small recommendation rules shown next to routes.
package advisor

import (
	"math/rand"
	"sort"

	"github.com/ukydev/eco-routes/internal/models"
)

const (
	// DefaultCarbonGPerKm stands in for a vehicle with no recorded emissions.
	DefaultCarbonGPerKm = 150.0

	// WalkingNudgeDistanceKm is the distance under which walking is suggested.
	WalkingNudgeDistanceKm = 1.5
	// WalkingBonusPoints is advertised with the walking nudge. It is never awarded.
	WalkingBonusPoints int64 = 100

	// RewardStep is the number of points between rewards.
	RewardStep int64 = 1000
)

var tips = []string{
	"Did you know? Walking or cycling for trips under 1km can reduce your carbon footprint significantly!",
	"Properly inflated tires can improve your gas mileage by up to 3%. Check yours today!",
	"Combining errands into one trip saves you time, fuel, and reduces emissions.",
	"Consider using public transport during peak hours. It's often faster and much more eco-friendly.",
}

// BestVehicleForTrip returns the vehicle with the lowest carbon emissions,
// or nil for an empty garage. Missing emissions compare as
// DefaultCarbonGPerKm. The first vehicle wins a tie.
//
// distanceKm is accepted for API stability but does not affect the result.
func BestVehicleForTrip(vehicles []models.GarageVehicle, distanceKm float64) *models.GarageVehicle {
	if len(vehicles) == 0 {
		return nil
	}
	sorted := make([]models.GarageVehicle, len(vehicles))
	copy(sorted, vehicles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return carbonOf(sorted[i]) < carbonOf(sorted[j])
	})
	best := sorted[0]
	return &best
}

func carbonOf(v models.GarageVehicle) float64 {
	if v.CarbonGPerKm == nil {
		return DefaultCarbonGPerKm
	}
	return *v.CarbonGPerKm
}

// NeedsWalkingNudge reports whether any option is short enough to walk.
func NeedsWalkingNudge(options []models.RouteOption) bool {
	for _, opt := range options {
		if opt.DistanceKm < WalkingNudgeDistanceKm {
			return true
		}
	}
	return false
}

// PointsToNextReward is RewardStep minus the balance's remainder modulo
// RewardStep. The remainder keeps the sign of points, so a negative balance
// reports more than RewardStep.
func PointsToNextReward(points int64) int64 {
	return RewardStep - points%RewardStep
}

// RandomTip picks one of the built-in eco tips.
func RandomTip(rnd *rand.Rand) string {
	if rnd == nil {
		return tips[rand.Intn(len(tips))]
	}
	return tips[rnd.Intn(len(tips))]
}

// Tips returns every built-in eco tip.
func Tips() []string {
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
