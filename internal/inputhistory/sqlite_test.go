package inputhistory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"saul/pkg/db"
)

func services(t *testing.T) map[string]Service {
	t.Helper()
	conn, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return map[string]Service{
		"sqlite": NewSQLiteService(conn),
		"memory": NewMemory(),
	}
}

func TestHistoryPerCase(t *testing.T) {
	ctx := context.Background()
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			for _, q := range []string{"first", "  ", "second"} {
				if err := svc.Add(ctx, "7", q); err != nil {
					t.Fatalf("Add failed: %v", err)
				}
			}
			_ = svc.Add(ctx, "8", "other case")

			got, err := svc.List(ctx, "7")
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if diff := cmp.Diff([]string{"first", "second"}, got); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHistoryKeepsNewest(t *testing.T) {
	ctx := context.Background()
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < Limit+5; i++ {
				_ = svc.Add(ctx, "c", fmt.Sprintf("q%d", i))
			}
			got, _ := svc.List(ctx, "c")
			if len(got) != Limit {
				t.Fatalf("expected %d entries, got %d", Limit, len(got))
			}
			if got[0] != "q5" || got[len(got)-1] != fmt.Sprintf("q%d", Limit+4) {
				t.Errorf("unexpected window %q .. %q", got[0], got[len(got)-1])
			}
		})
	}
}
