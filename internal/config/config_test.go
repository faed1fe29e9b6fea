package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port: got %d, want 8080", cfg.Port)
	}
	if cfg.Solver.TimeBudget() != 30*time.Second {
		t.Fatalf("time budget: got %v, want 30s", cfg.Solver.TimeBudget())
	}
	if cfg.Cache.TTL() != 5*time.Minute {
		t.Fatalf("cache TTL: got %v, want 5m", cfg.Cache.TTL())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
port: 9000
solver:
  time_budget_ms: 500
  assumed_speed_kmh: 60
pricing:
  fuel_price_per_liter: 2.0
vehicles:
  cargo_bike:
    fuel_efficiency_l_per_100km: 0
    cost_per_km: 0.05
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "9001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("env must win over file: got %d, want 9001", cfg.Port)
	}
	if cfg.Solver.TimeBudget() != 500*time.Millisecond {
		t.Fatalf("time budget: got %v, want 500ms", cfg.Solver.TimeBudget())
	}
	if cfg.Solver.AssumedSpeedKMH != 60 {
		t.Fatalf("speed: got %v, want 60", cfg.Solver.AssumedSpeedKMH)
	}

	pr := cfg.PricingModel()
	if pr.FuelPricePerLiter != 2.0 {
		t.Fatalf("fuel price: got %v, want 2.0", pr.FuelPricePerLiter)
	}
	// Unset rate falls back to the default.
	if pr.DriverHourlyRate != 25 {
		t.Fatalf("driver rate: got %v, want 25", pr.DriverHourlyRate)
	}

	specs := cfg.VehicleSpecs()
	if _, ok := specs["cargo_bike"]; !ok {
		t.Fatal("configured vehicle missing from merged table")
	}
	if specs["diesel_truck"].FuelEfficiencyLPer100KM != 35 {
		t.Fatal("built-in fleet table must survive the merge")
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
