package opt

import (
	"math"

	"routeopt/internal/matrix"
)

// NearestNeighbor is the deterministic fallback: starting at the depot it
// repeatedly visits the closest unvisited node by distance, ties broken by
// lowest index. It always succeeds and never enforces capacity or duration
// constraints; callers must tag its results heuristic_fallback so consumers
// know constraints were not verified. The reported Cost is priced on the
// same matrix the request asked to optimize for, so it stays comparable
// with SearchSolver costs.
type NearestNeighbor struct{}

func (NearestNeighbor) Solve(m *matrix.CostMatrix, req Request) (Solution, error) {
	n := m.Size()
	seq := make([]int, 0, n)
	seq = append(seq, 0)
	visited := make([]bool, n)
	visited[0] = true
	cur := 0
	for len(seq) < n {
		next := -1
		best := math.MaxFloat64
		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			if d := m.DistanceKM[cur][j]; d < best {
				best, next = d, j
			}
		}
		seq = append(seq, next)
		visited[next] = true
		cur = next
	}

	costs := activeCosts(m, req.OptimizeFor)
	var cost int64
	for i := 0; i+1 < len(seq); i++ {
		cost += int64(costs[seq[i]][seq[i+1]] * CostScale)
	}
	return Solution{Sequence: seq, Cost: cost}, nil
}
