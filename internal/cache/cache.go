package cache

import (
	"context"
	"time"
)

// KV is a byte-oriented key-value store with per-entry TTL. Collaborator
// lookups and other short-lived results go through this interface instead
// of global mutable state.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
