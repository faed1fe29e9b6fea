package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	rid := "r1"
	ch := b.Subscribe(rid)

	evt := ProgressEvent{Iteration: 3, BestCost: 4200}
	b.Publish(rid, evt)

	select {
	case got := <-ch:
		if got.Iteration != 3 || got.BestCost != 4200 {
			t.Fatalf("bad event: %+v", got)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(rid, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		// acceptable if already drained and closed
	}
}

func TestBrokerIsolatesRoutes(t *testing.T) {
	b := NewBroker()
	chA := b.Subscribe("a")
	chB := b.Subscribe("b")
	defer b.Unsubscribe("a", chA)
	defer b.Unsubscribe("b", chB)

	b.Publish("a", ProgressEvent{Iteration: 1})
	select {
	case <-chB:
		t.Fatal("event leaked to another route's subscriber")
	case <-time.After(50 * time.Millisecond):
	}
	select {
	case <-chA:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("subscriber missed its own route's event")
	}
}

func TestBrokerReplaysTerminalEventToLateSubscriber(t *testing.T) {
	b := NewBroker()
	// Everything, including the terminal event, fires before anyone listens
	// when optimize runs synchronously.
	b.Publish("r-late", ProgressEvent{Iteration: 5, BestCost: 700})
	b.Publish("r-late", ProgressEvent{Iteration: 9, BestCost: 500, Done: true})

	ch := b.Subscribe("r-late")
	defer b.Unsubscribe("r-late", ch)
	select {
	case got := <-ch:
		if !got.Done || got.Iteration != 9 || got.BestCost != 500 {
			t.Fatalf("replayed event wrong: %+v", got)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("late subscriber never got the terminal event")
	}

	// Non-terminal events are not retained.
	ch2 := b.Subscribe("r-other")
	defer b.Unsubscribe("r-other", ch2)
	b.Publish("r-other", ProgressEvent{Iteration: 1})
	<-ch2
	ch3 := b.Subscribe("r-other")
	defer b.Unsubscribe("r-other", ch3)
	select {
	case evt := <-ch3:
		t.Fatalf("unexpected replay of non-terminal event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("r")
	defer b.Unsubscribe("r", ch)
	// Fill the buffer and keep publishing; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish("r", ProgressEvent{Iteration: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
