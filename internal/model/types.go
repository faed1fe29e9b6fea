package model

import "time"

// Core domain types for the optimization pipeline.

const (
	OptimizeForTime     = "time"
	OptimizeForDistance = "distance"

	QualityOptimal  = "optimal"
	QualityFallback = "heuristic_fallback"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are inside the WGS84 ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Stop is one delivery point. Immutable once submitted for an optimize call.
type Stop struct {
	ID                 string  `json:"stop_id,omitempty"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	Priority           int     `json:"priority,omitempty"`
	ServiceTimeMinutes int     `json:"service_time_minutes,omitempty"`
}

func (s Stop) Point() GeoPoint { return GeoPoint{Lat: s.Lat, Lng: s.Lng} }

// Constraints limit the tour; zero values mean unconstrained.
type Constraints struct {
	MaxCapacity        int `json:"max_capacity,omitempty"`
	MaxDurationMinutes int `json:"max_duration_minutes,omitempty"`
}

type Preferences struct {
	OptimizeFor   string `json:"optimize_for,omitempty"` // time | distance
	AvoidTolls    bool   `json:"avoid_tolls,omitempty"`
	AvoidHighways bool   `json:"avoid_highways,omitempty"`
}

type OptimizeRequest struct {
	// RouteID lets the caller name the route up front so it can open the
	// progress stream before submitting. Server-generated when empty.
	RouteID      string       `json:"route_id,omitempty"`
	Origin       GeoPoint     `json:"origin"`
	Destinations []Stop       `json:"destinations"`
	VehicleType  string       `json:"vehicle_type,omitempty"`
	Constraints  *Constraints `json:"constraints,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
	TimeBudgetMs int          `json:"time_budget_ms,omitempty"`
}

// RouteStop is a Stop annotated with its place in the visiting order.
type RouteStop struct {
	Stop
	Sequence         int     `json:"sequence"`
	DistanceFromPrev float64 `json:"distance_from_previous"`
	TimeFromPrev     float64 `json:"time_from_previous"`
}

// Route is the assembled visiting order with per-leg and total figures.
// Created once per optimize call and never mutated afterwards.
type Route struct {
	Stops                []RouteStop `json:"stops"`
	TotalDistanceKM      float64     `json:"total_distance_km"`
	TotalTimeMinutes     float64     `json:"total_time_minutes"`
	OptimizationSequence []int       `json:"optimization_sequence"`
}

type RouteMetrics struct {
	TotalDistanceKM     float64 `json:"total_distance_km"`
	TotalTimeMinutes    float64 `json:"total_time_minutes"`
	FuelConsumedLiters  float64 `json:"fuel_consumed_liters"`
	EstimatedCostUSD    float64 `json:"estimated_cost_usd"`
	AverageSpeedKMH     float64 `json:"average_speed_kmh"`
	TrafficImpact       float64 `json:"traffic_impact"`
	WeatherImpact       float64 `json:"weather_impact"`
	OptimizationQuality string  `json:"optimization_quality"` // optimal | heuristic_fallback
	StopsCount          int     `json:"stops_count"`
}

type OptimizationResult struct {
	RouteID        string       `json:"route_id"`
	OptimizedRoute Route        `json:"optimized_route"`
	Metrics        RouteMetrics `json:"metrics"`
	CreatedAt      time.Time    `json:"created_at"`
}

type VehicleSpec struct {
	FuelEfficiencyLPer100KM float64 `json:"fuel_efficiency_l_per_100km" yaml:"fuel_efficiency_l_per_100km"`
	CostPerKM               float64 `json:"cost_per_km" yaml:"cost_per_km"`
}
