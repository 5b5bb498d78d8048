// Package theme holds the one shared light/dark setting every view reads.
package theme

import (
	"context"
	"log/slog"
	"sync"

	"saul/internal/preferences"
	"saul/internal/pubsub"
)

// Mode is the colour scheme.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// ParseMode maps anything other than "light" to Dark.
func ParseMode(s string) Mode {
	if Mode(s) == Light {
		return Light
	}
	return Dark
}

// Event is delivered to subscribers after every change.
type Event = pubsub.Event[Mode]

// Store is an observable holder for the current Mode. Changes go through Set
// and are persisted when a key/value store is attached.
type Store struct {
	mu     sync.RWMutex
	mode   Mode
	kv     preferences.KV
	broker *pubsub.Broker[Mode]
}

// NewStore loads the persisted mode from kv (which may be nil), falling back
// to fallback.
func NewStore(ctx context.Context, kv preferences.KV, fallback Mode) *Store {
	s := &Store{mode: ParseMode(string(fallback)), kv: kv, broker: pubsub.NewBroker[Mode](4)}
	if kv != nil {
		if v, err := kv.Get(ctx, preferences.KeyTheme); err == nil && v != "" {
			s.mode = ParseMode(v)
		}
	}
	return s
}

func (s *Store) Get() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Set updates the mode, persists it and notifies subscribers. Setting the
// current mode again is a no-op.
func (s *Store) Set(ctx context.Context, mode Mode) {
	mode = ParseMode(string(mode))
	s.mu.Lock()
	if s.mode == mode {
		s.mu.Unlock()
		return
	}
	s.mode = mode
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.Set(ctx, preferences.KeyTheme, string(mode)); err != nil {
			slog.Debug("theme: persist failed", "error", err)
		}
	}
	s.broker.Publish(pubsub.UpdatedEvent, mode)
}

// Toggle switches between dark and light and returns the new mode.
func (s *Store) Toggle(ctx context.Context) Mode {
	next := Light
	if s.Get() == Light {
		next = Dark
	}
	s.Set(ctx, next)
	return next
}

// Subscribe returns a channel of changes that closes with ctx.
func (s *Store) Subscribe(ctx context.Context) <-chan Event {
	return s.broker.Subscribe(ctx)
}

// Close shuts down all subscriptions.
func (s *Store) Close() { s.broker.Shutdown() }
