package opt

import (
	"sync"
	"time"
)

// SolveStats captures what the search did for one optimize call. Kept in a
// process-local table keyed by route ID for debugging and the admin surface.
type SolveStats struct {
	Construction string `json:"construction"` // cheapest_insertion | nearest_neighbor
	Iterations   int    `json:"iterations"`
	Improvements int    `json:"improvements"`
	BestCost     int64  `json:"best_cost"`
	Converged    bool   `json:"converged"`
	ElapsedMs    int64  `json:"elapsed_ms"`
}

// statsTTL bounds the table: route IDs are unique per call, so without
// eviction the table would grow at request rate. Matches the result store's
// retention so stats outlive their route result, never the other way round.
const statsTTL = 24 * time.Hour

type statsEntry struct {
	stats      SolveStats
	recordedAt time.Time
}

var (
	statsMu  sync.Mutex
	stats    = map[string]statsEntry{}
	statsNow = time.Now
)

func RecordStats(routeID string, s SolveStats) {
	now := statsNow()
	statsMu.Lock()
	for id, e := range stats {
		if now.Sub(e.recordedAt) > statsTTL {
			delete(stats, id)
		}
	}
	stats[routeID] = statsEntry{stats: s, recordedAt: now}
	statsMu.Unlock()
}

func GetStats(routeID string) (SolveStats, bool) {
	statsMu.Lock()
	defer statsMu.Unlock()
	e, ok := stats[routeID]
	if !ok || statsNow().Sub(e.recordedAt) > statsTTL {
		return SolveStats{}, false
	}
	return e.stats, true
}
