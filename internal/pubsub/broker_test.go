package pubsub

import (
	"context"
	"testing"
	"time"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	b := NewBroker[string](4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := b.Subscribe(ctx)
	c := b.Subscribe(ctx)
	b.Publish(UpdatedEvent, "light")

	for _, ch := range []<-chan Event[string]{a, c} {
		select {
		case evt := <-ch:
			if evt.Type != UpdatedEvent || evt.Payload != "light" {
				t.Errorf("unexpected event %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker[int](1)
	ch := b.Subscribe(context.Background())
	b.Publish(UpdatedEvent, 1)
	b.Publish(UpdatedEvent, 2)

	if evt := <-ch; evt.Payload != 1 {
		t.Fatalf("expected first event, got %+v", evt)
	}
	select {
	case evt := <-ch:
		t.Fatalf("second event should have been dropped, got %+v", evt)
	default:
	}
}

func TestBrokerUnsubscribesOnCancel(t *testing.T) {
	b := NewBroker[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	if n := b.Len(); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
}

func TestBrokerShutdown(t *testing.T) {
	b := NewBroker[int](1)
	ch := b.Subscribe(context.Background())
	b.Shutdown()
	b.Shutdown()
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after shutdown")
	}
	late := b.Subscribe(context.Background())
	if _, ok := <-late; ok {
		t.Fatal("subscribing after shutdown should return a closed channel")
	}
	b.Publish(UpdatedEvent, 1)
}
