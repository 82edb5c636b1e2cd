package models

import "github.com/shopspring/decimal"

// Currency of every fare and toll amount.
const Currency = "INR"

// RouteCategory identifies one of the route archetypes.
type RouteCategory string

const (
	RouteEco    RouteCategory = "eco"
	RouteFast   RouteCategory = "fast"
	RouteHybrid RouteCategory = "hybrid"
)

// RouteOption is one candidate route for a search. Options are never persisted.
type RouteOption struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Category         RouteCategory    `json:"category"`
	Icon             string           `json:"icon"`
	Color            string           `json:"color"`
	TimeMinutes      int              `json:"time_minutes"`
	DistanceKm       float64          `json:"distance_km"`
	CarbonKg         float64          `json:"carbon_kg"`
	AQI              int              `json:"aqi"`
	EVStationCount   int              `json:"ev_station_count"`
	FuelStationCount int              `json:"fuel_station_count"`
	HasToll          bool             `json:"has_toll"`
	TollCost         *decimal.Decimal `json:"toll_cost,omitempty"`
	ConstructionNote *string          `json:"construction_note,omitempty"`
	HealthImpactText string           `json:"health_impact"`
	SpeedAdviceText  string           `json:"speed_advice"`
	CabFareEstimate  *decimal.Decimal `json:"cab_fare_estimate"`
	RewardPoints     int64            `json:"reward_points"`
	SpecialInfo      *string          `json:"special_info,omitempty"`
}

// RouteSearchResponse is returned by a route search.
type RouteSearchResponse struct {
	From               string        `json:"from"`
	To                 string        `json:"to"`
	Currency           string        `json:"currency"`
	Options            []RouteOption `json:"options"`
	WalkingNudge       bool          `json:"walking_nudge"`
	WalkingBonusPoints int64         `json:"walking_bonus_points,omitempty"`
}

// StartRouteResponse reports the outcome of starting a route.
type StartRouteResponse struct {
	Route         RouteOption `json:"route"`
	PointsAwarded int64       `json:"points_awarded"`
}
