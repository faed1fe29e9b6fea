package providers

import (
	"context"
	"time"

	"routeopt/internal/model"
)

// TrafficProvider reports a travel-time multiplier for a trip between two
// points. 1.0 means free flow; values above 1.0 slow the trip down.
type TrafficProvider interface {
	Multiplier(ctx context.Context, from, to model.GeoPoint) (float64, error)
}

// StaticTraffic always reports the same multiplier. Useful for tests and
// for deployments that feed a known condition through config.
type StaticTraffic float64

func (s StaticTraffic) Multiplier(context.Context, model.GeoPoint, model.GeoPoint) (float64, error) {
	return float64(s), nil
}

// ClockTraffic derives the multiplier from the local time of day: rush hour
// mornings and evenings run slow, daytime runs slightly slow, everything
// else is free flow.
type ClockTraffic struct {
	Now func() time.Time
}

const (
	rushHourMultiplier = 1.4
	daytimeMultiplier  = 1.1
)

func (c ClockTraffic) Multiplier(context.Context, model.GeoPoint, model.GeoPoint) (float64, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	switch h := now().Hour(); {
	case h >= 7 && h <= 9, h >= 17 && h <= 19:
		return rushHourMultiplier, nil
	case h >= 10 && h <= 16:
		return daytimeMultiplier, nil
	default:
		return 1.0, nil
	}
}
