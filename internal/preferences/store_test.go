package preferences

import (
	"context"
	"path/filepath"
	"testing"

	"saul/internal/checklist"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if v, err := s.Get(ctx, "missing"); err != nil || v != "" {
		t.Fatalf("missing key: got %q, %v", v, err)
	}
	if err := s.Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, KeyTheme, "light"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if v, _ := s.Get(ctx, KeyTheme); v != "light" {
		t.Errorf("expected light, got %q", v)
	}
	if err := s.Delete(ctx, KeyTheme); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if v, _ := s.Get(ctx, KeyTheme); v != "" {
		t.Errorf("expected deleted key to read empty, got %q", v)
	}
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()
	for name, kv := range map[string]KV{"sqlite": openTestStore(t), "memory": NewMemory()} {
		t.Run(name, func(t *testing.T) {
			if err := SetBool(ctx, kv, "b", true); err != nil {
				t.Fatalf("SetBool: %v", err)
			}
			if v, err := GetBool(ctx, kv, "b"); err != nil || !v {
				t.Errorf("GetBool = %v, %v", v, err)
			}
			if v, err := GetBool(ctx, kv, "nope"); err != nil || v {
				t.Errorf("missing bool = %v, %v", v, err)
			}
			if err := SetInt(ctx, kv, KeyLeftWidth, 40); err != nil {
				t.Fatalf("SetInt: %v", err)
			}
			if v := GetInt(ctx, kv, KeyLeftWidth, 0); v != 40 {
				t.Errorf("GetInt = %d", v)
			}
			kv.Set(ctx, "bad", "forty")
			if v := GetInt(ctx, kv, "bad", 7); v != 7 {
				t.Errorf("malformed int should fall back, got %d", v)
			}
		})
	}
}

func TestStoreBacksChecklistCompletion(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tr := checklist.NewTracker(s)

	tr.Toggle(ctx, "42", "42-1")
	if got := tr.Load(ctx, "42"); !got["42-1"] {
		t.Fatalf("completion not persisted: %v", got)
	}
	raw, _ := s.Get(ctx, checklist.KeyPrefix+"42")
	if raw != `{"42-1":true}` {
		t.Errorf("unexpected stored value %q", raw)
	}
}

func TestDrafts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if d, sid, err := s.Draft(ctx, "1"); err != nil || d != "" || sid != 0 {
		t.Fatalf("empty draft: %q %d %v", d, sid, err)
	}
	if err := s.SaveDraft(ctx, "1", 9, "half a question"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.SaveDraft(ctx, "1", 0, "rewritten"); err != nil {
		t.Fatalf("SaveDraft overwrite: %v", err)
	}
	d, sid, err := s.Draft(ctx, "1")
	if err != nil || d != "rewritten" || sid != 0 {
		t.Errorf("got %q %d %v", d, sid, err)
	}
}
