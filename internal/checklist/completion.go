package checklist

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// KeyPrefix namespaces completion entries in the key/value store.
const KeyPrefix = "saul-todos-"

// KV is the client-local key/value storage completion state lives in.
// A missing key reads as "" with a nil error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Tracker persists which items of a case are done, independently of the
// report the items were extracted from. A nil store or a failing one is
// treated as unavailable: reads return nothing and writes are dropped.
//
// Concurrent writers to the same case race last-write-wins.
type Tracker struct {
	mu    sync.Mutex
	store KV
}

// NewTracker wraps store. store may be nil.
func NewTracker(store KV) *Tracker {
	return &Tracker{store: store}
}

func storageKey(caseID string) string { return KeyPrefix + caseID }

// Load returns the persisted id→done mapping for a case. Missing, corrupt or
// unavailable state yields an empty mapping.
func (t *Tracker) Load(ctx context.Context, caseID string) map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, _ := t.load(ctx, caseID)
	return state
}

// load reports ok=false when the store could not be read. Corrupt or missing
// state is readable: it comes back empty with ok=true.
func (t *Tracker) load(ctx context.Context, caseID string) (map[string]bool, bool) {
	state := map[string]bool{}
	if t.store == nil {
		return state, false
	}
	raw, err := t.store.Get(ctx, storageKey(caseID))
	if err != nil {
		slog.Debug("checklist: completion state unavailable", "case", caseID, "error", err)
		return state, false
	}
	if raw == "" {
		return state, true
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil || state == nil {
		slog.Debug("checklist: discarding corrupt completion state", "case", caseID, "error", err)
		return map[string]bool{}, true
	}
	return state, true
}

func (t *Tracker) save(ctx context.Context, caseID string, state map[string]bool) {
	if t.store == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := t.store.Set(ctx, storageKey(caseID), string(data)); err != nil {
		slog.Debug("checklist: dropping completion write", "case", caseID, "error", err)
	}
}

// Toggle flips one item and persists the whole mapping right away. It
// returns the item's new state. When the stored mapping cannot be read the
// write is dropped, so the other items of the case keep their state.
func (t *Tracker) Toggle(ctx context.Context, caseID, itemID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.load(ctx, caseID)
	done := !state[itemID]
	if !ok {
		return done
	}
	state[itemID] = done
	t.save(ctx, caseID, state)
	return done
}

// Reset clears completion for every item of a case.
func (t *Tracker) Reset(ctx context.Context, caseID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.save(ctx, caseID, map[string]bool{})
}

// Apply copies items with Done taken from state. Ids that no longer exist
// in state come back not done.
func Apply(items []Item, state map[string]bool) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Done = state[it.ID]
		out[i] = it
	}
	return out
}

// Build extracts a report and overlays the persisted completion state.
func (t *Tracker) Build(ctx context.Context, report, caseID string) Checklist {
	items := Extract(report, caseID)
	return Checklist{
		CaseID:    caseID,
		Items:     Apply(items, t.Load(ctx, caseID)),
		UpdatedAt: time.Now(),
	}
}
