package route

import (
	"math"

	"routeopt/internal/model"
)

// Pricing holds the cost model applied on top of an assembled route.
type Pricing struct {
	FuelPricePerLiter float64 `yaml:"fuel_price_per_liter"`
	DriverHourlyRate  float64 `yaml:"driver_hourly_rate"`
}

func DefaultPricing() Pricing {
	return Pricing{FuelPricePerLiter: 1.5, DriverHourlyRate: 25}
}

// ComputeMetrics derives aggregate fuel, cost and speed figures from an
// assembled route. Pure arithmetic, guarded against zero travel time.
func ComputeMetrics(rt model.Route, spec model.VehicleSpec, pr Pricing, quality string, traffic, weather float64) model.RouteMetrics {
	fuel := 0.0
	if spec.FuelEfficiencyLPer100KM > 0 {
		fuel = rt.TotalDistanceKM * spec.FuelEfficiencyLPer100KM / 100
	}
	cost := fuel*pr.FuelPricePerLiter + rt.TotalTimeMinutes/60*pr.DriverHourlyRate
	speed := 0.0
	if rt.TotalTimeMinutes > 0 {
		speed = rt.TotalDistanceKM / (rt.TotalTimeMinutes / 60)
	}
	stops := 0
	if len(rt.Stops) > 0 {
		stops = len(rt.Stops) - 1 // exclude the depot
	}
	return model.RouteMetrics{
		TotalDistanceKM:     round2(rt.TotalDistanceKM),
		TotalTimeMinutes:    round2(rt.TotalTimeMinutes),
		FuelConsumedLiters:  round2(fuel),
		EstimatedCostUSD:    round2(cost),
		AverageSpeedKMH:     round2(speed),
		TrafficImpact:       traffic,
		WeatherImpact:       weather,
		OptimizationQuality: quality,
		StopsCount:          stops,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
