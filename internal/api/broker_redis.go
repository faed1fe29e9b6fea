package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so progress events
// reach subscribers on any replica. Terminal events are additionally stored
// with a TTL so late subscribers get them replayed.
type RedisBroker struct {
	rdb *redis.Client

	mu  sync.Mutex
	sub map[chan ProgressEvent]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: redis.NewClient(opt), sub: map[chan ProgressEvent]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(routeID string) chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(routeID))
	// initial consume to ensure subscription
	_, _ = ps.Receive(ctx)
	b.mu.Lock()
	b.sub[ch] = ps
	b.mu.Unlock()
	// Replay the terminal event for an already-completed route.
	if raw, err := b.rdb.Get(ctx, b.doneKey(routeID)).Bytes(); err == nil {
		var evt ProgressEvent
		if json.Unmarshal(raw, &evt) == nil {
			ch <- evt
		}
	}
	// The goroutine owns ch: it is the only closer, so Unsubscribe tearing
	// down the PubSub cannot race a send with a close.
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt ProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(_ string, ch chan ProgressEvent) {
	b.mu.Lock()
	ps := b.sub[ch]
	delete(b.sub, ch)
	b.mu.Unlock()
	if ps != nil {
		_ = ps.Close() // closes ps.Channel(), which ends the reader goroutine
	}
}

func (b *RedisBroker) Publish(routeID string, evt ProgressEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	if evt.Done {
		_ = b.rdb.Set(ctx, b.doneKey(routeID), data, doneRetention).Err()
	}
	_ = b.rdb.Publish(ctx, b.chanName(routeID), data).Err()
}

func (b *RedisBroker) chanName(routeID string) string { return "optimize:" + routeID }
func (b *RedisBroker) doneKey(routeID string) string  { return "optimize:done:" + routeID }
