package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadSortsEmbeddedMigrations(t *testing.T) {
	migrations, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least two migrations, got %d", len(migrations))
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].Version >= migrations[i].Version {
			t.Fatalf("migrations out of order: %d then %d", migrations[i-1].Version, migrations[i].Version)
		}
	}
	if migrations[0].Name != "ui_preferences" || migrations[0].DownSQL == "" {
		t.Errorf("unexpected first migration %+v", migrations[0])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := NewRunner(db)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	version, dirty, err := r.Version(ctx)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if dirty || version < 2 {
		t.Errorf("expected clean version >= 2, got %d dirty=%v", version, dirty)
	}

	if _, err := db.Exec(`INSERT INTO ui_preferences(key, value, updated_at) VALUES('k', 'v', 1)`); err != nil {
		t.Errorf("ui_preferences table missing: %v", err)
	}
}

func TestRunRefusesDirtyDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := NewRunner(db)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := db.Exec(`UPDATE schema_migrations SET dirty = TRUE`); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}
	if err := r.Run(ctx); !errors.Is(err, ErrDirty) {
		t.Fatalf("expected ErrDirty, got %v", err)
	}

	version, _, _ := r.Version(ctx)
	if err := r.Force(ctx, version); err != nil {
		t.Fatalf("Force failed: %v", err)
	}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run after Force failed: %v", err)
	}
}

func TestParseFilename(t *testing.T) {
	v, name, dir, err := parseFilename("0003_add_index.down.sql")
	if err != nil || v != 3 || name != "add_index" || dir != "down" {
		t.Errorf("got %d %q %q %v", v, name, dir, err)
	}
	for _, bad := range []string{"nope.sql", "0001.up.sql", "x_name.up.sql", "0001_name.sideways.sql"} {
		if _, _, _, err := parseFilename(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
