package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "saul.db")

	conn, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM ui_preferences`).Scan(&n); err != nil {
		t.Fatalf("ui_preferences not created: %v", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "saul.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	boom := errors.New("boom")
	err = WithTx(ctx, conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO ui_preferences(key, value, updated_at) VALUES('a', 'b', 1)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM ui_preferences`).Scan(&n)
	if n != 0 {
		t.Errorf("rollback left %d rows", n)
	}
}
