package opt

import (
	"errors"
	"time"

	"routeopt/internal/matrix"
)

const (
	// CostScale converts float matrix costs to integers so the search never
	// depends on floating-point comparison drift.
	CostScale = 100

	DefaultTimeBudget = 30 * time.Second

	// WaitSlackMinutes is the waiting tolerance granted on top of an active
	// duration constraint before a tour counts as infeasible.
	WaitSlackMinutes = 30.0
)

// ErrNonConvergent reports that no feasible tour could be constructed within
// the time budget. Callers recover by switching to the fallback heuristic.
var ErrNonConvergent = errors.New("opt: no feasible tour within budget")

// Request carries the per-call knobs for a solve.
type Request struct {
	OptimizeFor        string        // "time" (default) or "distance"
	MaxCapacity        int           // units, one unit of demand per stop; 0 = unconstrained
	MaxDurationMinutes int           // 0 = unconstrained
	TimeBudget         time.Duration // 0 = DefaultTimeBudget
}

// Solution is a visiting order over matrix node indices, depot (0) first.
type Solution struct {
	Sequence  []int
	Cost      int64 // scaled tour cost under the matrix the solver optimized
	Converged bool  // local search reached a local optimum before the deadline
}

// Solver produces a visiting order for a cost matrix.
type Solver interface {
	Solve(m *matrix.CostMatrix, req Request) (Solution, error)
}

func activeCosts(m *matrix.CostMatrix, optimizeFor string) [][]float64 {
	if optimizeFor == "distance" {
		return m.DistanceKM
	}
	return m.TimeMinutes
}

func scaleCosts(src [][]float64) [][]int64 {
	out := make([][]int64, len(src))
	for i, row := range src {
		out[i] = make([]int64, len(row))
		for j, v := range row {
			out[i][j] = int64(v * CostScale)
		}
	}
	return out
}

func tourCost(costs [][]int64, seq []int) int64 {
	var total int64
	for i := 0; i+1 < len(seq); i++ {
		total += costs[seq[i]][seq[i+1]]
	}
	return total
}

// durationFeasible walks the tour accumulating transit time and checks the
// duration constraint at every stop, allowing the per-stop waiting slack.
func durationFeasible(m *matrix.CostMatrix, seq []int, req Request) bool {
	if req.MaxDurationMinutes <= 0 {
		return true
	}
	limit := float64(req.MaxDurationMinutes) + WaitSlackMinutes
	t := 0.0
	for i := 0; i+1 < len(seq); i++ {
		t += m.TimeMinutes[seq[i]][seq[i+1]]
		if t > limit {
			return false
		}
	}
	return true
}
