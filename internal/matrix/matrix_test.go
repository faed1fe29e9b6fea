package matrix

import (
	"math"
	"testing"

	"routeopt/internal/model"
)

var (
	testOrigin = model.GeoPoint{Lat: 40.7128, Lng: -74.0060}
	testStops  = []model.Stop{
		{ID: "a", Lat: 40.7589, Lng: -73.9851},
		{ID: "b", Lat: 40.6892, Lng: -74.0445},
	}
)

func TestBuildShapeAndDiagonal(t *testing.T) {
	m := Builder{}.Build(testOrigin, testStops, 1.0, 1.0)
	if m.Size() != 3 {
		t.Fatalf("size: got %d, want 3", m.Size())
	}
	for i := 0; i < m.Size(); i++ {
		if m.DistanceKM[i][i] != 0 || m.TimeMinutes[i][i] != 0 {
			t.Fatalf("diagonal not zero at %d", i)
		}
		for j := 0; j < m.Size(); j++ {
			if i != j && m.DistanceKM[i][j] <= 0 {
				t.Fatalf("distance[%d][%d] not positive", i, j)
			}
		}
	}
}

func TestBuildSymmetry(t *testing.T) {
	m := Builder{}.Build(testOrigin, testStops, 1.3, 1.1)
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if m.DistanceKM[i][j] != m.DistanceKM[j][i] {
				t.Fatalf("distance matrix asymmetric at [%d][%d]", i, j)
			}
			if m.TimeMinutes[i][j] != m.TimeMinutes[j][i] {
				t.Fatalf("time matrix asymmetric at [%d][%d]", i, j)
			}
		}
	}
}

func TestBuildAppliesMultipliers(t *testing.T) {
	base := Builder{}.Build(testOrigin, testStops, 1.0, 1.0)
	adj := Builder{}.Build(testOrigin, testStops, 1.4, 1.2)
	for i := 0; i < base.Size(); i++ {
		for j := 0; j < base.Size(); j++ {
			if i == j {
				continue
			}
			want := base.TimeMinutes[i][j] * 1.4 * 1.2
			if math.Abs(adj.TimeMinutes[i][j]-want) > 1e-9 {
				t.Fatalf("time[%d][%d]: got %v, want %v", i, j, adj.TimeMinutes[i][j], want)
			}
			if adj.DistanceKM[i][j] != base.DistanceKM[i][j] {
				t.Fatalf("distance must not be affected by multipliers")
			}
			want = base.DistanceKM[i][j] / AssumedSpeedKMH * 60
			if math.Abs(base.TimeMinutes[i][j]-want) > 1e-9 {
				t.Fatalf("base time[%d][%d]: got %v, want %v", i, j, base.TimeMinutes[i][j], want)
			}
		}
	}
}

func TestBuildNormalizesMultipliers(t *testing.T) {
	capped := Builder{}.Build(testOrigin, testStops, 1.0, 3.5)
	want := Builder{}.Build(testOrigin, testStops, 1.0, MaxWeatherMultiplier)
	if capped.TimeMinutes[0][1] != want.TimeMinutes[0][1] {
		t.Fatalf("weather multiplier not capped at %v", MaxWeatherMultiplier)
	}
	defaulted := Builder{}.Build(testOrigin, testStops, -2, 0)
	base := Builder{}.Build(testOrigin, testStops, 1.0, 1.0)
	if defaulted.TimeMinutes[0][1] != base.TimeMinutes[0][1] {
		t.Fatalf("non-positive multipliers must default to 1.0")
	}
}
