// Package preferences is the client-local key/value store: UI settings,
// checklist completion and anything else the web client kept in
// localStorage.
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	"saul/pkg/db"
)

// Keys shared by more than one package.
const (
	KeyTheme      = "saul-theme"
	KeyLeftWidth  = "layout.left_width"
	KeyRightWidth = "layout.right_width"
	KeyLastCase   = "session.last_case"
)

// Store manages preferences persisted to sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Store{db: conn}, nil
}

// New wraps an already migrated connection.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns "" for a missing key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM ui_preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ts := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ui_preferences(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, ts)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ui_preferences WHERE key = ?`, key)
	return err
}

// Draft returns the unsent chat input saved for a case.
func (s *Store) Draft(ctx context.Context, caseID string) (string, int64, error) {
	var (
		draft     string
		sessionID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT draft, session_id FROM chat_drafts WHERE case_id = ?`, caseID).Scan(&draft, &sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	return draft, sessionID.Int64, err
}

// SaveDraft remembers the unsent input and active session for a case.
func (s *Store) SaveDraft(ctx context.Context, caseID string, sessionID int64, draft string) error {
	var sid sql.NullInt64
	if sessionID > 0 {
		sid = sql.NullInt64{Int64: sessionID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_drafts(case_id, session_id, draft, updated_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(case_id) DO UPDATE SET session_id = excluded.session_id, draft = excluded.draft, updated_at = excluded.updated_at`,
		caseID, sid, draft, time.Now().Unix())
	return err
}

// Memory is an in-process store used in tests and when the database cannot
// be opened.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// KV is the common surface of Store and Memory.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var (
	_ KV = (*Store)(nil)
	_ KV = (*Memory)(nil)
)

// GetBool reads a boolean; missing keys are false.
func GetBool(ctx context.Context, kv KV, key string) (bool, error) {
	value, err := kv.Get(ctx, key)
	if err != nil || value == "" {
		return false, err
	}
	return strconv.ParseBool(value)
}

func SetBool(ctx context.Context, kv KV, key string, value bool) error {
	return kv.Set(ctx, key, strconv.FormatBool(value))
}

// GetInt reads an integer; missing or malformed values return def.
func GetInt(ctx context.Context, kv KV, key string, def int) int {
	value, err := kv.Get(ctx, key)
	if err != nil || value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func SetInt(ctx context.Context, kv KV, key string, value int) error {
	return kv.Set(ctx, key, strconv.Itoa(value))
}
