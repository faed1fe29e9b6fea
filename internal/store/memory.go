package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"routeopt/internal/model"
)

// resultTTL bounds how long finished optimizations stay in memory.
const resultTTL = 24 * time.Hour

// Memory is the in-process store used when no DATABASE_URL is set.
type Memory struct {
	mu      sync.RWMutex
	results map[string]model.OptimizationResult
}

func NewMemory() *Memory {
	return &Memory{results: map[string]model.OptimizationResult{}}
}

func (m *Memory) SaveResult(_ context.Context, res model.OptimizationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictExpiredLocked()
	m.results[res.RouteID] = res
	return nil
}

func (m *Memory) GetResult(_ context.Context, routeID string) (model.OptimizationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[routeID]
	if !ok || time.Since(res.CreatedAt) > resultTTL {
		return model.OptimizationResult{}, ErrNotFound
	}
	return res, nil
}

func (m *Memory) ListResults(_ context.Context, limit int) ([]model.OptimizationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.OptimizationResult, 0, len(m.results))
	for _, res := range m.results {
		if time.Since(res.CreatedAt) > resultTTL {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) evictExpiredLocked() {
	for id, res := range m.results {
		if time.Since(res.CreatedAt) > resultTTL {
			delete(m.results, id)
		}
	}
}
