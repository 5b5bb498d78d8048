package notebook

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"saul/internal/api"
	"saul/internal/checklist"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func newPanel() *Panel {
	p := New()
	p.SetSize(40, 30)
	p.Focus()
	return p
}

func TestEnterOpensHeading(t *testing.T) {
	p := newPanel()
	p.Update(key("j"))
	msg, ok := p.Update(key("enter"))().(OpenAnalyticMsg)
	if !ok || msg.Heading != "Evidence Gap Analysis" || msg.Type != "gap_analysis" || msg.Refresh {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestChecklistRowsToggleAndReset(t *testing.T) {
	p := newPanel()
	p.SetChecklist(ChecklistHeading, checklist.Checklist{Items: []checklist.Item{
		{ID: "7-1", Label: "File complaint", Description: "Submit the form"},
		{ID: "7-2", Label: "Arrange trial", Done: true},
	}})

	for range api.AnalyticTypes {
		p.Update(key("j"))
	}
	msg, ok := p.Update(key("space"))().(ToggleTodoMsg)
	if !ok || msg.ItemID != "7-1" {
		t.Fatalf("unexpected toggle %#v", msg)
	}
	p.Update(key("j"))
	if msg, _ := p.Update(key("enter"))().(ToggleTodoMsg); msg.ItemID != "7-2" {
		t.Fatalf("enter on an item should toggle it, got %#v", msg)
	}
	p.Update(key("j"))
	if _, ok := p.item(); !ok {
		t.Errorf("cursor should stay on the last item")
	}

	if _, ok := p.Update(key("R"))().(ResetTodosMsg); !ok {
		t.Errorf("R should reset")
	}

	view := p.View()
	if !strings.Contains(view, "1/2") || !strings.Contains(view, "File complaint") {
		t.Errorf("view missing progress or labels:\n%s", view)
	}
}

func TestRefreshAndAsk(t *testing.T) {
	p := newPanel()
	if cmd := p.Update(key("r")); cmd != nil {
		t.Errorf("refresh needs an open report")
	}
	p.SetReport("Risk Assessment", "## Risks\n- delay")
	msg, ok := p.Update(key("r"))().(OpenAnalyticMsg)
	if !ok || !msg.Refresh || msg.Type != "risk_assessment" {
		t.Fatalf("unexpected refresh %#v", msg)
	}
	if m, ok := p.Update(key("s"))().(AskHeadingMsg); !ok || m.Heading != "Procedural Checklist" {
		t.Errorf("unexpected ask %#v", m)
	}
}

func TestErrorAndLoadingStates(t *testing.T) {
	p := newPanel()
	p.SetLoading("Compliance Tracker")
	if !strings.Contains(p.View(), "Generating Compliance Tracker") {
		t.Errorf("loading state not shown")
	}
	p.SetError("Compliance Tracker", errors.New("backend returned 500"))
	if !strings.Contains(p.View(), "backend returned 500") {
		t.Errorf("error not shown")
	}
}
