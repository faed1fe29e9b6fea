package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"routeopt/internal/cache"
	"routeopt/internal/model"
)

var (
	ptA = model.GeoPoint{Lat: 40.7128, Lng: -74.0060}
	ptB = model.GeoPoint{Lat: 40.7589, Lng: -73.9851}
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
	}
}

func TestClockTrafficBands(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{7, 1.4},
		{9, 1.4},
		{17, 1.4},
		{19, 1.4},
		{10, 1.1},
		{16, 1.1},
		{3, 1.0},
		{22, 1.0},
	}
	for _, tc := range cases {
		p := ClockTraffic{Now: fixedClock(tc.hour)}
		got, err := p.Multiplier(context.Background(), ptA, ptB)
		if err != nil {
			t.Fatalf("hour %d: %v", tc.hour, err)
		}
		if got != tc.want {
			t.Fatalf("hour %d: got %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestImpactFromConditions(t *testing.T) {
	if got := ImpactFromConditions(Conditions{}); got != 1.0 {
		t.Fatalf("clear skies: got %v, want 1.0", got)
	}
	// 5mm rain: 1 + 0.1 + 5/10*0.2 = 1.2
	if got := ImpactFromConditions(Conditions{PrecipitationMM: 5}); got != 1.2 {
		t.Fatalf("rain: got %v, want 1.2", got)
	}
	// 60 km/h wind: 1 + 40/100 = 1.4
	if got := ImpactFromConditions(Conditions{WindSpeedKMH: 60}); got != 1.4 {
		t.Fatalf("wind: got %v, want 1.4", got)
	}
	// 1 km visibility: 1 + 4/10 = 1.4
	if got := ImpactFromConditions(Conditions{VisibilityKM: 1}); got != 1.4 {
		t.Fatalf("fog: got %v, want 1.4", got)
	}
	// Everything hostile at once still caps at 2.0.
	got := ImpactFromConditions(Conditions{PrecipitationMM: 80, WindSpeedKMH: 120, VisibilityKM: 0.5})
	if got != 2.0 {
		t.Fatalf("cap: got %v, want 2.0", got)
	}
}

func TestForecastWeatherDefaultsClear(t *testing.T) {
	got, err := ForecastWeather{}.Multiplier(context.Background(), ptA)
	if err != nil || got != 1.0 {
		t.Fatalf("nil source: got %v err=%v, want 1.0", got, err)
	}
}

type countingTraffic struct {
	calls int
	mult  float64
	err   error
}

func (c *countingTraffic) Multiplier(context.Context, model.GeoPoint, model.GeoPoint) (float64, error) {
	c.calls++
	return c.mult, c.err
}

func TestCachedTrafficHitsOnceThenServesFromCache(t *testing.T) {
	inner := &countingTraffic{mult: 1.4}
	p := CachedTraffic{Next: inner, KV: cache.NewMemory(), TTL: time.Minute}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := p.Multiplier(ctx, ptA, ptB)
		if err != nil || got != 1.4 {
			t.Fatalf("call %d: got %v err=%v", i, got, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("upstream calls: got %d, want 1", inner.calls)
	}
	// A different corridor is a different key.
	if _, err := p.Multiplier(ctx, ptB, ptA); err != nil {
		t.Fatalf("reverse trip: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("upstream calls after reverse trip: got %d, want 2", inner.calls)
	}
}

func TestCachedTrafficPropagatesErrors(t *testing.T) {
	wantErr := errors.New("feed down")
	p := CachedTraffic{Next: &countingTraffic{err: wantErr}, KV: cache.NewMemory(), TTL: time.Minute}
	if _, err := p.Multiplier(context.Background(), ptA, ptB); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

type countingWeather struct {
	calls int
	mult  float64
}

func (c *countingWeather) Multiplier(context.Context, model.GeoPoint) (float64, error) {
	c.calls++
	return c.mult, nil
}

func TestCachedWeatherMemoizes(t *testing.T) {
	inner := &countingWeather{mult: 1.3}
	p := CachedWeather{Next: inner, KV: cache.NewMemory(), TTL: time.Minute}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := p.Multiplier(ctx, ptA)
		if err != nil || got != 1.3 {
			t.Fatalf("call %d: got %v err=%v", i, got, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("upstream calls: got %d, want 1", inner.calls)
	}
}

func TestCachedProvidersWorkWithoutKV(t *testing.T) {
	inner := &countingTraffic{mult: 1.1}
	p := CachedTraffic{Next: inner}
	for i := 0; i < 2; i++ {
		if got, err := p.Multiplier(context.Background(), ptA, ptB); err != nil || got != 1.1 {
			t.Fatalf("got %v err=%v", got, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("nil KV must pass through every call, got %d calls", inner.calls)
	}
}
