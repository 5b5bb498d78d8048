package tui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"saul/config"
	"saul/internal/api"
	"saul/internal/session"
	"saul/internal/theme"
)

// Backend is the subset of the API client the notebook uses.
type Backend interface {
	ListAllCases(ctx context.Context) ([]api.Case, error)
	ListCaseFiles(ctx context.Context, caseID int64) ([]api.CaseFile, error)
	DownloadURL(fileID int64) string
	UploadCaseFile(ctx context.Context, caseID int64, path string) (api.UploadResult, error)
	UploadNote(ctx context.Context, caseID int64, title, text string) (api.UploadResult, error)
	Query(ctx context.Context, req api.QueryRequest) (api.QueryResponse, error)
	Analytics(ctx context.Context, caseID int64, analyticType string) (api.Analytic, error)
	ClearAnalyticsCache(ctx context.Context, caseID int64) error
	ListChatSessions(ctx context.Context, caseID int64) ([]api.ChatSession, error)
	GetChatSession(ctx context.Context, sessionID int64) (api.ChatSessionFull, error)
	CreateChatSession(ctx context.Context, req api.SaveChatSessionRequest) (api.ChatSessionFull, error)
	UpdateChatSession(ctx context.Context, sessionID int64, req api.SaveChatSessionRequest) (api.ChatSessionFull, error)
	DeleteChatSession(ctx context.Context, sessionID int64) error
}

var _ Backend = (*api.Client)(nil)

type casesLoadedMsg struct {
	cases []api.Case
	err   error
}

type filesLoadedMsg struct {
	caseID int64
	files  []api.CaseFile
	err    error
}

type sessionsLoadedMsg struct {
	caseID   int64
	sessions []api.ChatSession
	err      error
}

type sessionLoadedMsg struct {
	session api.ChatSessionFull
	err     error
}

type sessionSavedMsg struct {
	caseID int64
	id     int64
	err    error
}

type sessionDeletedMsg struct {
	id  int64
	err error
}

type answerMsg struct {
	caseID  int64
	resp    api.QueryResponse
	err     error
	elapsed time.Duration
}

type analyticMsg struct {
	caseID   int64
	heading  string
	analytic api.Analytic
	err      error
}

type uploadedMsg struct {
	caseID int64
	name   string
	result api.UploadResult
	err    error
}

type historyLoadedMsg struct {
	caseID  int64
	entries []string
}

type themeChangedMsg struct{ mode theme.Mode }

type configReloadedMsg struct{ cfg config.Config }

type clearStatusMsg struct{ seq int }

func (m *Model) loadCasesCmd() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		cases, err := backend.ListAllCases(ctx)
		return casesLoadedMsg{cases: cases, err: err}
	}
}

func (m *Model) loadFilesCmd(caseID int64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		files, err := backend.ListCaseFiles(ctx, caseID)
		return filesLoadedMsg{caseID: caseID, files: files, err: err}
	}
}

func (m *Model) loadSessionsCmd(caseID int64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		sessions, err := backend.ListChatSessions(ctx, caseID)
		return sessionsLoadedMsg{caseID: caseID, sessions: sessions, err: err}
	}
}

func (m *Model) loadSessionCmd(id int64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		s, err := backend.GetChatSession(ctx, id)
		return sessionLoadedMsg{session: s, err: err}
	}
}

func (m *Model) loadHistoryCmd(caseID int64) tea.Cmd {
	history, ctx, key := m.history, m.ctx, strconv.FormatInt(caseID, 10)
	return func() tea.Msg {
		entries, err := history.List(ctx, key)
		if err != nil {
			slog.Debug("tui: input history unavailable", "case", caseID, "error", err)
		}
		return historyLoadedMsg{caseID: caseID, entries: entries}
	}
}

func (m *Model) deleteSessionCmd(id int64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return sessionDeletedMsg{id: id, err: backend.DeleteChatSession(ctx, id)}
	}
}

// saveSessionCmd creates the session on first save and updates it after.
func (m *Model) saveSessionCmd(caseID, sessionID int64, msgs []session.Message) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	req := session.Save(caseID, msgs)
	return func() tea.Msg {
		var (
			saved api.ChatSessionFull
			err   error
		)
		if sessionID == 0 {
			saved, err = backend.CreateChatSession(ctx, req)
		} else {
			saved, err = backend.UpdateChatSession(ctx, sessionID, req)
		}
		if err != nil {
			return sessionSavedMsg{caseID: caseID, id: sessionID, err: err}
		}
		return sessionSavedMsg{caseID: caseID, id: saved.ID}
	}
}

func (m *Model) queryCmd(caseID int64, question string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	req := api.QueryRequest{Query: question}
	if caseID > 0 {
		req.CaseID = &caseID
	}
	return func() tea.Msg {
		start := time.Now()
		resp, err := backend.Query(ctx, req)
		return answerMsg{caseID: caseID, resp: resp, err: err, elapsed: time.Since(start)}
	}
}

func (m *Model) analyticCmd(caseID int64, heading, typ string, refresh bool) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		if refresh {
			if err := backend.ClearAnalyticsCache(ctx, caseID); err != nil {
				return analyticMsg{caseID: caseID, heading: heading, err: err}
			}
		}
		a, err := backend.Analytics(ctx, caseID, typ)
		return analyticMsg{caseID: caseID, heading: heading, analytic: a, err: err}
	}
}

func (m *Model) uploadFileCmd(caseID int64, path string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		res, err := backend.UploadCaseFile(ctx, caseID, path)
		return uploadedMsg{caseID: caseID, name: path, result: res, err: err}
	}
}

func (m *Model) uploadNoteCmd(caseID int64, title, text string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		res, err := backend.UploadNote(ctx, caseID, title, text)
		return uploadedMsg{caseID: caseID, name: title, result: res, err: err}
	}
}

func waitThemeCmd(ch <-chan theme.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return themeChangedMsg{mode: ev.Payload}
	}
}

func waitConfigCmd(ch <-chan config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}

func clearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}
