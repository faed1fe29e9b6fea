package matrix

import (
	"routeopt/internal/geo"
	"routeopt/internal/model"
)

const (
	// AssumedSpeedKMH is the average city driving speed used to derive
	// travel time from straight-line distance.
	AssumedSpeedKMH = 50.0

	// MaxWeatherMultiplier caps the weather impact on travel time.
	MaxWeatherMultiplier = 2.0
)

// CostMatrix holds pairwise travel costs for the depot (index 0) plus stops.
// The diagonal is zero and the distance matrix is symmetric; the time matrix
// is symmetric too because traffic and weather are applied as one global
// scalar per call.
type CostMatrix struct {
	DistanceKM  [][]float64
	TimeMinutes [][]float64
}

func (m *CostMatrix) Size() int { return len(m.DistanceKM) }

// Builder constructs distance and traffic/weather adjusted time matrices.
type Builder struct {
	SpeedKMH float64 // 0 means AssumedSpeedKMH
}

// Build never fails: non-positive multipliers are normalized to their
// documented default of 1.0 and weather impact is capped at 2.0, so a failed
// collaborator lookup upstream degrades to an unadjusted matrix.
func (b Builder) Build(origin model.GeoPoint, stops []model.Stop, trafficMult, weatherMult float64) *CostMatrix {
	speed := b.SpeedKMH
	if speed <= 0 {
		speed = AssumedSpeedKMH
	}
	if trafficMult <= 0 {
		trafficMult = 1.0
	}
	if weatherMult <= 0 {
		weatherMult = 1.0
	}
	if weatherMult > MaxWeatherMultiplier {
		weatherMult = MaxWeatherMultiplier
	}

	points := make([]model.GeoPoint, 0, len(stops)+1)
	points = append(points, origin)
	for _, s := range stops {
		points = append(points, s.Point())
	}

	n := len(points)
	dist := make([][]float64, n)
	tmin := make([][]float64, n)
	for i := range points {
		dist[i] = make([]float64, n)
		tmin[i] = make([]float64, n)
		for j := range points {
			if i == j {
				continue
			}
			d := geo.Distance(points[i], points[j])
			dist[i][j] = d
			tmin[i][j] = d / speed * 60 * trafficMult * weatherMult
		}
	}
	return &CostMatrix{DistanceKM: dist, TimeMinutes: tmin}
}
