package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"routeopt/internal/cache"
	"routeopt/internal/model"
)

// CachedTraffic memoizes traffic lookups in a KV store. Conditions on a
// corridor change slowly relative to request rates, so a short TTL saves
// most upstream calls without serving stale data.
type CachedTraffic struct {
	Next TrafficProvider
	KV   cache.KV
	TTL  time.Duration
}

func (c CachedTraffic) Multiplier(ctx context.Context, from, to model.GeoPoint) (float64, error) {
	key := "traffic:" + tripKey(from, to)
	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}
	mult, err := c.Next.Multiplier(ctx, from, to)
	if err != nil {
		return 0, err
	}
	c.store(ctx, key, mult)
	return mult, nil
}

func (c CachedTraffic) lookup(ctx context.Context, key string) (float64, bool) {
	if c.KV == nil {
		return 0, false
	}
	raw, ok, err := c.KV.Get(ctx, key)
	if err != nil || !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c CachedTraffic) store(ctx context.Context, key string, v float64) {
	if c.KV == nil {
		return
	}
	// Cache errors only cost us a recomputation.
	_ = c.KV.Set(ctx, key, []byte(strconv.FormatFloat(v, 'f', -1, 64)), c.TTL)
}

// CachedWeather memoizes weather lookups the same way.
type CachedWeather struct {
	Next WeatherProvider
	KV   cache.KV
	TTL  time.Duration
}

func (c CachedWeather) Multiplier(ctx context.Context, at model.GeoPoint) (float64, error) {
	key := "weather:" + pointKey(at)
	if c.KV != nil {
		if raw, ok, err := c.KV.Get(ctx, key); err == nil && ok {
			if v, perr := strconv.ParseFloat(string(raw), 64); perr == nil {
				return v, nil
			}
		}
	}
	mult, err := c.Next.Multiplier(ctx, at)
	if err != nil {
		return 0, err
	}
	if c.KV != nil {
		_ = c.KV.Set(ctx, key, []byte(strconv.FormatFloat(mult, 'f', -1, 64)), c.TTL)
	}
	return mult, nil
}

// tripKey buckets coordinates to ~1m so float noise does not fragment the
// cache.
func tripKey(from, to model.GeoPoint) string {
	return pointKey(from) + "|" + pointKey(to)
}

func pointKey(p model.GeoPoint) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}
