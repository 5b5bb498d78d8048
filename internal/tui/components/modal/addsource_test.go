package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
)

func typeText(m *AddSource, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestFileTabSubmitsPath(t *testing.T) {
	m := NewAddSource(80)
	if cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatalf("empty path must not submit")
	}
	if m.err == "" {
		t.Errorf("expected a validation message")
	}

	typeText(m, "/tmp/fir.txt")
	msg, ok := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})().(AddFileMsg)
	if !ok || msg.Path != "/tmp/fir.txt" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestNoteTabSubmitsTitleAndText(t *testing.T) {
	m := NewAddSource(80)
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(m, "Hearing")
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	typeText(m, "bring originals")

	msg, ok := m.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})().(AddNoteMsg)
	if !ok || msg.Title != "Hearing" || msg.Text != "bring originals" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestEscCloses(t *testing.T) {
	m := NewAddSource(80)
	if _, ok := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})().(CloseMsg); !ok {
		t.Errorf("esc should close")
	}
}
