package route

import (
	"errors"
	"math"
	"testing"

	"routeopt/internal/matrix"
	"routeopt/internal/model"
)

var (
	origin = model.GeoPoint{Lat: 40.7128, Lng: -74.0060}
	stops  = []model.Stop{
		{ID: "a", Lat: 40.7589, Lng: -73.9851, Priority: 1},
		{Lat: 40.6892, Lng: -74.0445, Priority: 2}, // no ID on purpose
	}
)

func TestAssembleTotalsMatchMatrix(t *testing.T) {
	m := matrix.Builder{}.Build(origin, stops, 1.2, 1.1)
	seq := []int{0, 2, 1}
	rt, err := Assemble(seq, m, origin, stops)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantDist := m.DistanceKM[0][2] + m.DistanceKM[2][1]
	wantTime := m.TimeMinutes[0][2] + m.TimeMinutes[2][1]
	if math.Abs(rt.TotalDistanceKM-wantDist) > 1e-9 {
		t.Fatalf("total distance: got %v, want %v", rt.TotalDistanceKM, wantDist)
	}
	if math.Abs(rt.TotalTimeMinutes-wantTime) > 1e-9 {
		t.Fatalf("total time: got %v, want %v", rt.TotalTimeMinutes, wantTime)
	}
	if len(rt.Stops) != 3 {
		t.Fatalf("stop count: got %d, want 3", len(rt.Stops))
	}
	if rt.Stops[0].ID != DepotID || rt.Stops[0].Sequence != 0 {
		t.Fatalf("depot annotation wrong: %+v", rt.Stops[0])
	}
	if rt.Stops[1].ID != "stop_2" {
		t.Fatalf("missing stop ID not defaulted: %+v", rt.Stops[1])
	}
	if rt.Stops[2].DistanceFromPrev != m.DistanceKM[2][1] {
		t.Fatalf("leg distance must come from the matrix")
	}
}

func TestAssembleRejectsMismatch(t *testing.T) {
	m := matrix.Builder{}.Build(origin, stops, 1, 1)
	cases := [][]int{
		{0, 1},          // too short
		{0, 1, 2, 3},    // too long
		{1, 0, 2},       // depot not first
		{0, 1, 1},       // not a bijection
		{0, 1, 5},       // index out of range
	}
	for _, seq := range cases {
		if _, err := Assemble(seq, m, origin, stops); !errors.Is(err, ErrSequenceMismatch) {
			t.Fatalf("seq %v: got %v, want ErrSequenceMismatch", seq, err)
		}
	}
}

func TestComputeMetricsArithmetic(t *testing.T) {
	rt := model.Route{
		Stops:            make([]model.RouteStop, 3),
		TotalDistanceKM:  100,
		TotalTimeMinutes: 120,
	}
	spec := model.VehicleSpec{FuelEfficiencyLPer100KM: 35}
	pr := Pricing{FuelPricePerLiter: 1.5, DriverHourlyRate: 25}
	got := ComputeMetrics(rt, spec, pr, model.QualityOptimal, 1.2, 1.1)
	if got.FuelConsumedLiters != 35 {
		t.Fatalf("fuel: got %v, want 35", got.FuelConsumedLiters)
	}
	// 35 L * 1.5 + 2 h * 25 = 102.5
	if got.EstimatedCostUSD != 102.5 {
		t.Fatalf("cost: got %v, want 102.5", got.EstimatedCostUSD)
	}
	if got.AverageSpeedKMH != 50 {
		t.Fatalf("speed: got %v, want 50", got.AverageSpeedKMH)
	}
	if got.StopsCount != 2 {
		t.Fatalf("stops count: got %v, want 2", got.StopsCount)
	}
	if got.OptimizationQuality != model.QualityOptimal || got.TrafficImpact != 1.2 || got.WeatherImpact != 1.1 {
		t.Fatalf("annotations wrong: %+v", got)
	}
}

func TestComputeMetricsZeroGuards(t *testing.T) {
	got := ComputeMetrics(model.Route{}, model.VehicleSpec{}, DefaultPricing(), model.QualityFallback, 1, 1)
	if got.AverageSpeedKMH != 0 || got.FuelConsumedLiters != 0 || got.StopsCount != 0 {
		t.Fatalf("zero route must produce zero figures: %+v", got)
	}
}

func TestComputeMetricsElectricBurnsNoFuel(t *testing.T) {
	rt := model.Route{TotalDistanceKM: 80, TotalTimeMinutes: 60}
	specs := DefaultSpecs()
	got := ComputeMetrics(rt, specs["electric_truck"], DefaultPricing(), model.QualityOptimal, 1, 1)
	if got.FuelConsumedLiters != 0 {
		t.Fatalf("electric fuel: got %v, want 0", got.FuelConsumedLiters)
	}
	// Driver time still costs money.
	if got.EstimatedCostUSD != 25 {
		t.Fatalf("electric cost: got %v, want 25", got.EstimatedCostUSD)
	}
}

func TestLookupFromFallsBackToDefault(t *testing.T) {
	lookup := LookupFrom(DefaultSpecs())
	spec, ok := lookup("hovercraft")
	if !ok {
		t.Fatalf("lookup must fall back to the default vehicle type")
	}
	if spec.FuelEfficiencyLPer100KM != 35 {
		t.Fatalf("fallback spec: got %+v, want diesel_truck", spec)
	}
	spec, ok = lookup("hybrid_truck")
	if !ok || spec.FuelEfficiencyLPer100KM != 25 {
		t.Fatalf("known type lookup wrong: %+v ok=%v", spec, ok)
	}
}
