package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"saul/internal/api"
	"saul/internal/session"
	"saul/internal/source"
)

func TestEnterSubmitsTrimmedText(t *testing.T) {
	c := New()
	c.SetSize(60, 20)
	c.Focus()
	c.SetDraft("  what is the deadline?  ")

	cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok || msg.Text != "what is the deadline?" {
		t.Fatalf("unexpected message %#v", msg)
	}
	if c.Draft() != "" {
		t.Errorf("input should be cleared after submit")
	}
}

func TestEnterIgnoredWhilePending(t *testing.T) {
	c := New()
	c.SetSize(60, 20)
	c.Focus()
	c.SetPending(true)
	c.SetDraft("again")
	if cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Errorf("pending chat must not submit")
	}
}

func TestEscClearsActiveSource(t *testing.T) {
	c := New()
	c.SetSize(60, 20)
	c.Focus()
	c.SetActiveSource(source.Heading("Risk Assessment"))
	if !strings.Contains(c.View(), "Risk Assessment") {
		t.Errorf("chip should show the active source")
	}
	c.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !c.ActiveSource().IsZero() {
		t.Errorf("esc should clear the active source")
	}
}

func TestLastAnswer(t *testing.T) {
	c := New()
	c.SetSize(60, 20)
	c.Append(session.NewUserMessage("q"))
	c.Append(session.NewAssistantMessage(api.QueryResponse{Answer: "first"}))
	c.Append(session.NewUserMessage("q2"))
	if got := c.LastAnswer(); got != "first" {
		t.Errorf("got %q", got)
	}
}

func TestHistoryRecall(t *testing.T) {
	c := New()
	c.SetSize(60, 20)
	c.Focus()
	c.SetHistory([]string{"first question"})
	c.SetDraft("second question")
	c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	up := tea.KeyPressMsg{Code: tea.KeyUp}
	down := tea.KeyPressMsg{Code: tea.KeyDown}

	c.Update(up)
	if got := c.Draft(); got != "second question" {
		t.Fatalf("up should recall the latest question, got %q", got)
	}
	c.Update(up)
	c.Update(up)
	if got := c.Draft(); got != "first question" {
		t.Fatalf("up should stop at the oldest question, got %q", got)
	}
	c.Update(down)
	c.Update(down)
	if got := c.Draft(); got != "" {
		t.Errorf("down past the newest entry should clear the input, got %q", got)
	}

	c.SetDraft("typed by hand")
	c.Update(up)
	if got := c.Draft(); got != "typed by hand" {
		t.Errorf("recall must not overwrite typed text, got %q", got)
	}
}
