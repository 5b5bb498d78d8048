package checklist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapKV map[string]string

func (m mapKV) Get(_ context.Context, key string) (string, error) { return m[key], nil }

func (m mapKV) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type brokenKV struct{ writes int }

func (b *brokenKV) Get(context.Context, string) (string, error) {
	return "", errors.New("storage disabled")
}

func (b *brokenKV) Set(context.Context, string, string) error {
	b.writes++
	return errors.New("storage disabled")
}

func TestTrackerToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := mapKV{}
	tr := NewTracker(kv)

	if got := tr.Toggle(ctx, "42", "42-1"); !got {
		t.Fatalf("first toggle should mark the item done")
	}
	if got := tr.Load(ctx, "42"); !got["42-1"] {
		t.Fatalf("load should reflect the toggle, got %v", got)
	}
	if _, ok := kv[KeyPrefix+"42"]; !ok {
		t.Fatalf("toggle should persist under %q", KeyPrefix+"42")
	}

	if got := tr.Toggle(ctx, "42", "42-1"); got {
		t.Fatalf("second toggle should clear the item")
	}
	if got := tr.Load(ctx, "42"); got["42-1"] {
		t.Fatalf("load should reflect the second toggle, got %v", got)
	}
}

func TestTrackerResetAll(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(mapKV{})
	tr.Toggle(ctx, "7", "7-1")
	tr.Toggle(ctx, "7", "7-2")
	tr.Toggle(ctx, "8", "8-1")

	tr.Reset(ctx, "7")
	if got := tr.Load(ctx, "7"); len(got) != 0 {
		t.Fatalf("reset should empty the case, got %v", got)
	}
	if got := tr.Load(ctx, "8"); !got["8-1"] {
		t.Fatalf("reset must only affect its own case, got %v", got)
	}
}

func TestTrackerCorruptStateReadsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", "[1,2]", `"text"`} {
		kv := mapKV{KeyPrefix + "1": raw}
		tr := NewTracker(kv)
		if got := tr.Load(ctx, "1"); len(got) != 0 {
			t.Errorf("corrupt state %q should read empty, got %v", raw, got)
		}
		tr.Toggle(ctx, "1", "1-1")
		if got := tr.Load(ctx, "1"); !got["1-1"] {
			t.Errorf("toggle after corrupt state %q should recover, got %v", raw, got)
		}
	}
}

func TestTrackerUnavailableStorage(t *testing.T) {
	ctx := context.Background()

	nilTracker := NewTracker(nil)
	if got := nilTracker.Toggle(ctx, "1", "1-1"); !got {
		t.Errorf("toggle still reports the flipped value without storage")
	}
	if got := nilTracker.Load(ctx, "1"); len(got) != 0 {
		t.Errorf("nil storage should read empty, got %v", got)
	}
	nilTracker.Reset(ctx, "1")

	broken := &brokenKV{}
	tr := NewTracker(broken)
	tr.Toggle(ctx, "1", "1-1")
	tr.Reset(ctx, "1")
	if got := tr.Load(ctx, "1"); len(got) != 0 {
		t.Errorf("failing storage should read empty, got %v", got)
	}
	if broken.writes != 1 {
		t.Errorf("only the reset should attempt a write, got %d", broken.writes)
	}
}

// flakyKV reads fail while failReads is set; writes always succeed.
type flakyKV struct {
	mapKV
	failReads bool
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, error) {
	if f.failReads {
		return "", errors.New("read timeout")
	}
	return f.mapKV.Get(ctx, key)
}

func TestTrackerToggleKeepsStateWhenReadFails(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{mapKV: mapKV{}}
	tr := NewTracker(kv)
	tr.Toggle(ctx, "9", "9-1")
	tr.Toggle(ctx, "9", "9-2")
	before := kv.mapKV[KeyPrefix+"9"]

	kv.failReads = true
	if got := tr.Toggle(ctx, "9", "9-3"); !got {
		t.Errorf("toggle should still report the flipped value")
	}
	if after := kv.mapKV[KeyPrefix+"9"]; after != before {
		t.Fatalf("a toggle after a failed read overwrote the stored state: %q -> %q", before, after)
	}

	kv.failReads = false
	want := map[string]bool{"9-1": true, "9-2": true}
	if diff := cmp.Diff(want, tr.Load(ctx, "9")); diff != "" {
		t.Errorf("stored completion changed (-want +got):\n%s", diff)
	}
}

func TestApplyReusesCompletionById(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(mapKV{})
	report := "### File complaint\n### Arrange trial\n"

	first := tr.Build(ctx, report, "5")
	tr.Toggle(ctx, "5", first.Items[1].ID)

	again := tr.Build(ctx, report, "5")
	want := []Item{
		{ID: "5-1", Label: "File complaint"},
		{ID: "5-2", Label: "Arrange trial", Done: true},
	}
	if diff := cmp.Diff(want, again.Items); diff != "" {
		t.Fatalf("re-extraction lost completion (-want +got):\n%s", diff)
	}
	done, total := again.Progress()
	if done != 1 || total != 2 {
		t.Errorf("expected progress 1/2, got %d/%d", done, total)
	}

	// Inserting a heading shifts ids; completion follows the id, not the label.
	shifted := tr.Build(ctx, "### New first step\n"+report, "5")
	if !shifted.Items[1].Done || shifted.Items[1].Label != "File complaint" {
		t.Errorf("expected id 5-2 to keep its completion after reshuffle, got %+v", shifted.Items[1])
	}
}
