package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"routeopt/internal/model"
	"routeopt/internal/route"
)

// Config is the service configuration, read from an optional YAML file and
// overridable through environment variables.
type Config struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateBurst       int           `yaml:"rate_burst"`
	Solver          SolverConfig  `yaml:"solver"`
	Pricing         route.Pricing `yaml:"pricing"`
	Cache           CacheConfig   `yaml:"cache"`

	// Vehicles extends or overrides the built-in fleet table.
	Vehicles map[string]model.VehicleSpec `yaml:"vehicles"`
}

type SolverConfig struct {
	TimeBudgetMs    int     `yaml:"time_budget_ms"`
	AssumedSpeedKMH float64 `yaml:"assumed_speed_kmh"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

func Default() Config {
	return Config{
		Port:            8080,
		RateLimitPerSec: 10,
		RateBurst:       20,
		Solver:          SolverConfig{TimeBudgetMs: 30000, AssumedSpeedKMH: 50},
		Pricing:         route.DefaultPricing(),
		Cache:           CacheConfig{TTLSeconds: 300},
	}
}

// Load reads the config file at path, if one is given, on top of the
// defaults, then applies environment overrides. A missing path is fine;
// a path that exists but will not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return cfg, fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// VehicleSpecs merges configured vehicles over the built-in fleet table.
func (c Config) VehicleSpecs() map[string]model.VehicleSpec {
	specs := route.DefaultSpecs()
	for k, v := range c.Vehicles {
		specs[k] = v
	}
	return specs
}

func (c Config) PricingModel() route.Pricing {
	pr := c.Pricing
	if pr.FuelPricePerLiter <= 0 {
		pr.FuelPricePerLiter = route.DefaultPricing().FuelPricePerLiter
	}
	if pr.DriverHourlyRate <= 0 {
		pr.DriverHourlyRate = route.DefaultPricing().DriverHourlyRate
	}
	return pr
}

func (s SolverConfig) TimeBudget() time.Duration {
	if s.TimeBudgetMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeBudgetMs) * time.Millisecond
}

func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
