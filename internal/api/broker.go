package api

import (
	"sync"
	"time"
)

// ProgressEvent is one solver update streamed to progress subscribers.
type ProgressEvent struct {
	Iteration int   `json:"iteration"`
	BestCost  int64 `json:"best_cost"`
	Done      bool  `json:"done"`
}

// doneRetention is how long a route's terminal event is replayed to late
// subscribers. Optimize runs synchronously, so a client that learns the
// route ID from the response always subscribes after the terminal event
// was published; replay is what lets its stream complete.
const doneRetention = time.Hour

// EventBroker fans solver progress out to subscribers, in-process or via
// Redis when the service runs with replicas. Subscribing to a route whose
// terminal event already fired delivers that event immediately.
type EventBroker interface {
	Subscribe(routeID string) chan ProgressEvent
	Unsubscribe(routeID string, ch chan ProgressEvent)
	Publish(routeID string, evt ProgressEvent)
}

// Broker is the in-process EventBroker.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan ProgressEvent]struct{} // routeID -> set of channels
	done map[string]doneEntry                       // routeID -> terminal event
}

type doneEntry struct {
	evt ProgressEvent
	at  time.Time
}

func NewBroker() *Broker {
	return &Broker{
		subs: map[string]map[chan ProgressEvent]struct{}{},
		done: map[string]doneEntry{},
	}
}

func (b *Broker) Subscribe(routeID string) chan ProgressEvent {
	ch := make(chan ProgressEvent, 8)
	b.mu.Lock()
	if b.subs[routeID] == nil {
		b.subs[routeID] = map[chan ProgressEvent]struct{}{}
	}
	b.subs[routeID][ch] = struct{}{}
	if e, ok := b.done[routeID]; ok && time.Since(e.at) <= doneRetention {
		ch <- e.evt // buffered and freshly created, cannot block
	}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(routeID string, ch chan ProgressEvent) {
	b.mu.Lock()
	if m := b.subs[routeID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, routeID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

// Publish drops events for slow subscribers rather than blocking the solver.
// Terminal events are retained for replay to late subscribers.
func (b *Broker) Publish(routeID string, evt ProgressEvent) {
	b.mu.Lock()
	if evt.Done {
		now := time.Now()
		for id, e := range b.done {
			if now.Sub(e.at) > doneRetention {
				delete(b.done, id)
			}
		}
		b.done[routeID] = doneEntry{evt: evt, at: now}
	}
	m := b.subs[routeID]
	for ch := range m {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
