package theme

import (
	"context"
	"testing"
	"time"

	"saul/internal/preferences"
)

func TestStoreDefaultsAndPersistence(t *testing.T) {
	ctx := context.Background()
	kv := preferences.NewMemory()

	s := NewStore(ctx, kv, Dark)
	if s.Get() != Dark {
		t.Fatalf("expected dark default")
	}
	if got := s.Toggle(ctx); got != Light {
		t.Fatalf("toggle should switch to light, got %s", got)
	}
	if v, _ := kv.Get(ctx, preferences.KeyTheme); v != "light" {
		t.Errorf("theme not persisted, got %q", v)
	}

	reloaded := NewStore(ctx, kv, Dark)
	if reloaded.Get() != Light {
		t.Errorf("persisted theme not restored")
	}
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStore(ctx, nil, Light)
	ch := s.Subscribe(ctx)

	s.Set(ctx, Light)
	s.Set(ctx, Dark)

	select {
	case evt := <-ch:
		if evt.Payload != Dark {
			t.Errorf("expected dark, got %s", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	select {
	case evt := <-ch:
		t.Errorf("unchanged Set should not publish, got %+v", evt)
	default:
	}

	s.Close()
	if _, ok := <-ch; ok {
		t.Errorf("channel should close on Close")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("light") != Light || ParseMode("") != Dark || ParseMode("solarized") != Dark {
		t.Error("unexpected ParseMode results")
	}
}
