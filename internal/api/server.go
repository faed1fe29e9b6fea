package api

import (
	"context"
	"log"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"routeopt/internal/cache"
	"routeopt/internal/config"
	"routeopt/internal/metrics"
	"routeopt/internal/planner"
	"routeopt/internal/providers"
	"routeopt/internal/route"
	"routeopt/internal/store"
)

type Server struct {
	Store   store.Store
	Planner *planner.Planner
	Broker  EventBroker
	Cfg     config.Config

	limiter *rate.Limiter
}

// NewServer builds a Server from CONFIG_FILE plus the environment. If
// DATABASE_URL is unset it uses the in-memory store; if REDIS_URL is unset
// it uses the in-process cache and broker.
func NewServer() (*Server, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return NewServerWithConfig(cfg)
}

func NewServerWithConfig(cfg config.Config) (*Server, error) {
	var st store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(context.Background()); err != nil {
			return nil, err
		}
		st = pg
	}

	var kv cache.KV
	var broker EventBroker
	if url := os.Getenv("REDIS_URL"); url != "" {
		rkv, err := cache.NewRedis(url)
		if err != nil {
			return nil, err
		}
		kv = rkv
		rb, err := NewRedisBroker(url)
		if err != nil {
			log.Printf("api: redis broker unavailable, using in-process broker: %v", err)
			broker = NewBroker()
		} else {
			broker = rb
		}
	} else {
		kv = cache.NewMemory()
		broker = NewBroker()
	}

	srv := &Server{
		Store:   st,
		Broker:  broker,
		Cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateBurst),
	}
	srv.Planner = &planner.Planner{
		Traffic:    providers.CachedTraffic{Next: providers.ClockTraffic{}, KV: kv, TTL: cfg.Cache.TTL()},
		Weather:    providers.CachedWeather{Next: providers.StaticWeather(1.0), KV: kv, TTL: cfg.Cache.TTL()},
		Specs:      route.LookupFrom(cfg.VehicleSpecs()),
		Pricing:    cfg.PricingModel(),
		TimeBudget: cfg.Solver.TimeBudget(),
		Progress: func(routeID string, iter int, best int64) {
			broker.Publish(routeID, ProgressEvent{Iteration: iter, BestCost: best})
		},
	}
	srv.Planner.Matrix.SpeedKMH = cfg.Solver.AssumedSpeedKMH

	metrics.RegisterDefault()
	return srv, nil
}
