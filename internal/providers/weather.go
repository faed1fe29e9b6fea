package providers

import (
	"context"

	"routeopt/internal/model"
)

// WeatherProvider reports a travel-time multiplier for the weather around a
// point. 1.0 is clear conditions; the multiplier is capped at 2.0 so a
// hostile forecast can at most double travel time.
type WeatherProvider interface {
	Multiplier(ctx context.Context, at model.GeoPoint) (float64, error)
}

// Conditions is a raw weather observation.
type Conditions struct {
	PrecipitationMM float64 `json:"precipitation_mm"`
	WindSpeedKMH    float64 `json:"wind_speed_kmh"`
	VisibilityKM    float64 `json:"visibility_km"`
}

const maxWeatherImpact = 2.0

// ImpactFromConditions converts an observation into a travel-time
// multiplier. Precipitation, strong wind and poor visibility each add to
// the impact independently.
func ImpactFromConditions(c Conditions) float64 {
	impact := 1.0
	if c.PrecipitationMM > 0 {
		impact += 0.1 + c.PrecipitationMM/10*0.2
	}
	if c.WindSpeedKMH > 20 {
		impact += (c.WindSpeedKMH - 20) / 100
	}
	vis := c.VisibilityKM
	if vis == 0 {
		vis = 10 // unreported visibility is treated as clear
	}
	if vis < 5 {
		impact += (5 - vis) / 10
	}
	if impact > maxWeatherImpact {
		impact = maxWeatherImpact
	}
	return impact
}

// StaticWeather always reports the same multiplier.
type StaticWeather float64

func (s StaticWeather) Multiplier(context.Context, model.GeoPoint) (float64, error) {
	return float64(s), nil
}

// ConditionsSource yields the current observation near a point. Implemented
// by forecast API clients; the zero source reports clear skies.
type ConditionsSource func(ctx context.Context, at model.GeoPoint) (Conditions, error)

// ForecastWeather adapts a ConditionsSource into a WeatherProvider.
type ForecastWeather struct {
	Source ConditionsSource
}

func (f ForecastWeather) Multiplier(ctx context.Context, at model.GeoPoint) (float64, error) {
	if f.Source == nil {
		return 1.0, nil
	}
	cond, err := f.Source(ctx, at)
	if err != nil {
		return 0, err
	}
	return ImpactFromConditions(cond), nil
}
