package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea/v2"

	"saul/internal/api"
	"saul/internal/checklist"
	"saul/internal/layout"
	"saul/internal/session"
	"saul/internal/source"
	"saul/internal/theme"
	"saul/internal/timeutil"
	"saul/internal/tui/components/chat"
	"saul/internal/tui/components/notebook"
	"saul/internal/tui/components/sources"
	"saul/internal/tui/styles"
)

var sourceNone source.Source

// handleMessage reacts to component requests and backend results.
func (m *Model) handleMessage(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.header.SetStatus("", false)
		}
		return nil, true

	case themeChangedMsg:
		m.applyTheme(msg.mode)
		return waitThemeCmd(m.themeCh), true

	case configReloadedMsg:
		return tea.Batch(m.applyConfig(msg.cfg), waitConfigCmd(m.configCh)), true

	case casesLoadedMsg:
		if msg.err != nil {
			if m.picker != nil {
				m.picker.SetCases(nil, msg.err)
			}
			return m.setStatus("cases unavailable: "+describe(msg.err), true), true
		}
		m.cases = msg.cases
		if m.picker != nil {
			m.picker.SetCases(msg.cases, nil)
		}
		if m.caseID > 0 {
			m.caseTitle = m.titleFor(m.caseID)
			m.header.SetCase(m.caseTitle)
		}
		return nil, true

	case filesLoadedMsg:
		if msg.caseID != m.caseID {
			return nil, true
		}
		m.sources.SetLoading(false)
		if msg.err != nil {
			m.sources.SetSources(nil)
			return m.setStatus("sources unavailable: "+describe(msg.err), true), true
		}
		srcs := make([]source.Source, len(msg.files))
		for i, f := range msg.files {
			srcs[i] = f.Source(m.backend.DownloadURL(f.FileID))
		}
		m.sources.SetSources(srcs)
		return nil, true

	case sessionsLoadedMsg:
		if msg.caseID != m.caseID {
			return nil, true
		}
		if msg.err != nil {
			m.sources.SetSessions(nil)
			return m.setStatus("chat history unavailable: "+describe(msg.err), true), true
		}
		m.sources.SetSessions(msg.sessions)
		return nil, true

	case historyLoadedMsg:
		if msg.caseID == m.caseID {
			m.chat.SetHistory(msg.entries)
		}
		return nil, true

	case sessionLoadedMsg:
		if msg.err != nil {
			return m.setStatus("cannot open chat: "+describe(msg.err), true), true
		}
		m.sessionID = msg.session.ID
		m.chat.SetMessages(session.FromAPI(msg.session))
		return m.setFocus(focusChat), true

	case sessionSavedMsg:
		if msg.err != nil {
			return m.setStatus("chat not saved: "+describe(msg.err), true), true
		}
		if msg.caseID == m.caseID {
			m.sessionID = msg.id
			return m.loadSessionsCmd(m.caseID), true
		}
		return nil, true

	case sessionDeletedMsg:
		if msg.err != nil {
			return m.setStatus("delete failed: "+describe(msg.err), true), true
		}
		if msg.id == m.sessionID {
			m.startNewChat()
		}
		return tea.Batch(m.setStatus("chat deleted", false), m.loadSessionsCmd(m.caseID)), true

	case answerMsg:
		if msg.caseID != m.caseID {
			return nil, true
		}
		m.chat.SetPending(false)
		if msg.err != nil {
			m.chat.Append(session.Message{Role: session.RoleAssistant, Content: "Sorry, the question could not be answered: " + describe(msg.err)})
			return m.setStatus("query failed", true), true
		}
		m.chat.Append(session.NewAssistantMessage(msg.resp))
		return tea.Batch(
			m.setStatus("answered in "+timeutil.FormatDuration(msg.elapsed), false),
			m.saveSessionCmd(m.caseID, m.sessionID, m.chat.Messages()),
		), true

	case analyticMsg:
		if msg.caseID != m.caseID {
			return nil, true
		}
		if msg.err != nil {
			m.notebook.SetError(msg.heading, msg.err)
			return nil, true
		}
		m.reports.Set(reportKey(msg.caseID, msg.analytic.Type), msg.analytic)
		m.showReport(msg.heading, msg.analytic)
		return nil, true

	case uploadedMsg:
		if msg.err != nil {
			return m.setStatus("upload failed: "+describe(msg.err), true), true
		}
		status := "added " + msg.name
		if msg.result.Chunks > 0 {
			status += fmt.Sprintf(" (%d chunks)", msg.result.Chunks)
		}
		return tea.Batch(m.setStatus(status, false), m.loadFilesCmd(msg.caseID)), true

	case sources.AddSourceMsg:
		return m.openAddSource(), true

	case sources.SourceSelectedMsg:
		m.chat.SetActiveSource(msg.Source)
		return m.setFocus(focusChat), true

	case sources.SessionSelectedMsg:
		return m.loadSessionCmd(msg.ID), true

	case sources.SessionDeleteMsg:
		return m.deleteSessionCmd(msg.ID), true

	case chat.SubmitMsg:
		if m.caseID == 0 {
			return m.setStatus("open a case first (ctrl+k)", true), true
		}
		return m.submitQuestion(msg.Text), true

	case notebook.OpenAnalyticMsg:
		return m.openAnalytic(msg), true

	case notebook.AskHeadingMsg:
		m.chat.SetActiveSource(source.Heading(msg.Heading))
		return m.setFocus(focusChat), true

	case notebook.ToggleTodoMsg:
		m.tracker.Toggle(m.ctx, m.caseKey(), msg.ItemID)
		m.refreshChecklist()
		return nil, true

	case notebook.ResetTodosMsg:
		m.tracker.Reset(m.ctx, m.caseKey())
		m.refreshChecklist()
		return m.setStatus("to-dos reset", false), true
	}
	return nil, false
}

func (m *Model) openAnalytic(msg notebook.OpenAnalyticMsg) tea.Cmd {
	if m.caseID == 0 {
		return m.setStatus("open a case first (ctrl+k)", true)
	}
	key := reportKey(m.caseID, msg.Type)
	if msg.Refresh {
		m.reports.Invalidate(key)
	} else if a, ok := m.reports.Get(key); ok {
		m.showReport(msg.Heading, a)
		return nil
	}
	m.notebook.SetLoading(msg.Heading)
	return m.analyticCmd(m.caseID, msg.Heading, msg.Type, msg.Refresh)
}

// showReport renders the checklist analytic as to-dos and anything else as
// markdown.
func (m *Model) showReport(heading string, a api.Analytic) {
	if heading == notebook.ChecklistHeading {
		cl := m.tracker.Build(m.ctx, a.Report, m.caseKey())
		cl.Title = heading
		m.notebook.SetChecklist(heading, cl)
		return
	}
	m.notebook.SetReport(heading, a.Report)
}

// refreshChecklist re-applies persisted completion to the shown items.
func (m *Model) refreshChecklist() {
	cl, ok := m.notebook.Checklist()
	if !ok {
		return
	}
	cl.Items = checklist.Apply(cl.Items, m.tracker.Load(m.ctx, m.caseKey()))
	m.notebook.SetChecklist(m.notebook.Open(), cl)
}

func (m *Model) applyTheme(mode theme.Mode) {
	styles.SetMode(mode)
	m.header.SetMode(mode)
	m.help.Styles = styles.CurrentTheme().S().Help
	m.chat.InvalidateRender()
	m.notebook.InvalidateRender()
}

func (m *Model) copyLastAnswer() tea.Cmd {
	answer := m.chat.LastAnswer()
	if answer == "" {
		return m.setStatus("nothing to copy yet", false)
	}
	if err := clipboard.WriteAll(answer); err != nil {
		return m.setStatus("clipboard unavailable", true)
	}
	return m.setStatus("answer copied", false)
}

func (m *Model) nudge(delta int) tea.Cmd {
	side := layout.Left
	if m.focus == focusRight {
		side = layout.Right
	}
	if !m.layout.IsOpen(side) {
		return nil
	}
	m.layout.Nudge(side, delta)
	m.persistWidths()
	m.relayout()
	return nil
}

// describe shortens backend errors for the status line.
func describe(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return err.Error()
}
