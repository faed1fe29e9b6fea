package route

import (
	"errors"
	"fmt"

	"routeopt/internal/matrix"
	"routeopt/internal/model"
)

// ErrSequenceMismatch reports a visiting order that does not match the
// submitted stops. This is an internal invariant violation: the optimize
// call must abort with no partial result.
var ErrSequenceMismatch = errors.New("route: solution does not match stop count")

// DepotID names the origin node in assembled routes.
const DepotID = "depot"

// Assemble walks the visiting order and annotates each node with its
// sequence position and matrix-derived leg distance/time. Legs are looked
// up, never recomputed from coordinates, so totals stay consistent with
// what the solver optimized against.
func Assemble(seq []int, m *matrix.CostMatrix, origin model.GeoPoint, stops []model.Stop) (model.Route, error) {
	n := len(stops) + 1
	if len(seq) != n || m.Size() != n {
		return model.Route{}, fmt.Errorf("%w: sequence=%d stops=%d matrix=%d", ErrSequenceMismatch, len(seq), len(stops), m.Size())
	}
	if seq[0] != 0 {
		return model.Route{}, fmt.Errorf("%w: depot must lead the sequence", ErrSequenceMismatch)
	}
	seen := make([]bool, n)
	for _, idx := range seq {
		if idx < 0 || idx >= n || seen[idx] {
			return model.Route{}, fmt.Errorf("%w: sequence is not a permutation", ErrSequenceMismatch)
		}
		seen[idx] = true
	}

	out := model.Route{
		Stops:                make([]model.RouteStop, 0, n),
		OptimizationSequence: append([]int(nil), seq...),
	}
	for i, idx := range seq {
		rs := model.RouteStop{Sequence: i}
		if idx == 0 {
			rs.Stop = model.Stop{ID: DepotID, Lat: origin.Lat, Lng: origin.Lng}
		} else {
			rs.Stop = stops[idx-1]
			if rs.Stop.ID == "" {
				rs.Stop.ID = fmt.Sprintf("stop_%d", idx)
			}
		}
		if i > 0 {
			prev := seq[i-1]
			rs.DistanceFromPrev = m.DistanceKM[prev][idx]
			rs.TimeFromPrev = m.TimeMinutes[prev][idx]
			out.TotalDistanceKM += rs.DistanceFromPrev
			out.TotalTimeMinutes += rs.TimeFromPrev
		}
		out.Stops = append(out.Stops, rs)
	}
	return out, nil
}
