package opt

import (
	"math"
	"time"

	"routeopt/internal/matrix"
)

// SearchSolver is the primary optimizer. It builds an initial tour by
// cheapest insertion under capacity and duration feasibility, then improves
// it with 2-opt segment reversal until no improving move exists or the
// wall-clock budget runs out. Once construction succeeds it always holds a
// valid incumbent, so hitting the deadline degrades quality, never validity.
type SearchSolver struct {
	// Progress, when set, is invoked after each improving move.
	Progress func(iteration int, bestCost int64)
}

func (s *SearchSolver) Solve(m *matrix.CostMatrix, req Request) (Solution, error) {
	n := m.Size()
	if n < 2 {
		return Solution{}, ErrNonConvergent
	}
	budget := req.TimeBudget
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	deadline := time.Now().Add(budget)

	costs := scaleCosts(activeCosts(m, req.OptimizeFor))
	seq, err := construct(m, costs, req, deadline)
	if err != nil {
		return Solution{}, err
	}

	sol := Solution{Sequence: seq, Cost: tourCost(costs, seq)}
	sol.Converged = s.improve(m, costs, req, &sol, deadline)
	return sol, nil
}

// construct grows the tour from the depot by cheapest insertion. Candidates
// that would break an active constraint are skipped in favor of the next
// cheapest feasible one; ties on cost go to the lowest node index, then the
// lowest position, which keeps construction deterministic.
func construct(m *matrix.CostMatrix, costs [][]int64, req Request, deadline time.Time) ([]int, error) {
	n := len(costs)
	// Demand is one unit per stop on a single open tour, so cumulative
	// demand peaks at the stop count: the capacity check reduces to it.
	if req.MaxCapacity > 0 && n-1 > req.MaxCapacity {
		return nil, ErrNonConvergent
	}
	seq := []int{0}
	visited := make([]bool, n)
	visited[0] = true
	for len(seq) < n {
		if !time.Now().Before(deadline) {
			return nil, ErrNonConvergent
		}
		bestNode, bestPos := -1, -1
		bestDelta := int64(math.MaxInt64)
		for node := 1; node < n; node++ {
			if visited[node] {
				continue
			}
			for pos := 1; pos <= len(seq); pos++ {
				delta := insertionDelta(costs, seq, node, pos)
				if delta >= bestDelta {
					continue
				}
				if !durationFeasible(m, insertAt(seq, node, pos), req) {
					continue
				}
				bestDelta, bestNode, bestPos = delta, node, pos
			}
		}
		if bestNode < 0 {
			return nil, ErrNonConvergent
		}
		seq = insertAt(seq, bestNode, bestPos)
		visited[bestNode] = true
	}
	return seq, nil
}

// insertionDelta is the scaled cost change of inserting node before seq[pos]
// (or appending when pos == len(seq)).
func insertionDelta(costs [][]int64, seq []int, node, pos int) int64 {
	prev := seq[pos-1]
	if pos == len(seq) {
		return costs[prev][node]
	}
	next := seq[pos]
	return costs[prev][node] + costs[node][next] - costs[prev][next]
}

func insertAt(seq []int, node, pos int) []int {
	out := make([]int, 0, len(seq)+1)
	out = append(out, seq[:pos]...)
	out = append(out, node)
	out = append(out, seq[pos:]...)
	return out
}

// improve runs first-improvement 2-opt passes over the incumbent. Returns
// true when a full pass finds no improving move before the deadline.
func (s *SearchSolver) improve(m *matrix.CostMatrix, costs [][]int64, req Request, sol *Solution, deadline time.Time) bool {
	n := len(sol.Sequence)
	iter := 0
	for {
		improved := false
		for i := 1; i+1 < n; i++ {
			for k := i + 1; k < n; k++ {
				if !time.Now().Before(deadline) {
					return false
				}
				iter++
				cand := reverseSegment(sol.Sequence, i, k)
				c := tourCost(costs, cand)
				if c >= sol.Cost {
					continue
				}
				if !durationFeasible(m, cand, req) {
					continue
				}
				sol.Sequence, sol.Cost = cand, c
				improved = true
				if s.Progress != nil {
					s.Progress(iter, c)
				}
			}
		}
		if !improved {
			return true
		}
	}
}

// reverseSegment returns a copy of seq with positions [i,k] reversed. The
// depot at position 0 is never part of a segment.
func reverseSegment(seq []int, i, k int) []int {
	out := make([]int, len(seq))
	copy(out, seq)
	for a, b := i, k; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}
