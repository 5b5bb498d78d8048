// Package inputhistory remembers the questions asked in each case so they
// can be recalled in the chat input.
package inputhistory

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"
)

// Limit caps how many entries List returns, newest kept.
const Limit = 100

// Service persists and fetches input history per case.
type Service interface {
	Add(ctx context.Context, caseID, text string) error
	List(ctx context.Context, caseID string) ([]string, error)
}

type sqliteService struct {
	db *sql.DB
}

func NewSQLiteService(db *sql.DB) Service { return &sqliteService{db: db} }

func (s *sqliteService) Add(ctx context.Context, caseID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO input_history(case_id, text, created_at) VALUES(?, ?, ?)`,
		caseID, text, time.Now().Unix(),
	)
	return err
}

// List returns entries oldest first.
func (s *sqliteService) List(ctx context.Context, caseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM (
		   SELECT id, text FROM input_history WHERE case_id = ? ORDER BY id DESC LIMIT ?
		 ) ORDER BY id`,
		caseID, Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type memoryService struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewMemory keeps history for the lifetime of the process only.
func NewMemory() Service { return &memoryService{entries: make(map[string][]string)} }

func (m *memoryService) Add(_ context.Context, caseID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[caseID] = append(m.entries[caseID], text)
	return nil
}

func (m *memoryService) List(_ context.Context, caseID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[caseID]
	if len(e) > Limit {
		e = e[len(e)-Limit:]
	}
	return append([]string(nil), e...), nil
}
