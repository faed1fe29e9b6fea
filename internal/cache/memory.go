package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process KV used when no REDIS_URL is set. Entries expire
// lazily on read.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
}

type entry struct {
	val       []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{items: map[string]entry{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.items, key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}
