// Package modal holds the add-source dialog.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"saul/internal/tui/styles"
)

// AddFileMsg uploads a file from disk.
type AddFileMsg struct{ Path string }

// AddNoteMsg uploads free text as a note.
type AddNoteMsg struct{ Title, Text string }

// CloseMsg dismisses the dialog without doing anything.
type CloseMsg struct{}

type tab int

const (
	tabFile tab = iota
	tabNote
)

type field int

const (
	fieldPath field = iota
	fieldTitle
	fieldBody
)

type AddSource struct {
	width int
	tab   tab
	field field

	path  textinput.Model
	title textinput.Model
	body  *textarea.Model

	err string
}

func NewAddSource(width int) *AddSource {
	path := textinput.New()
	path.Placeholder = "/path/to/document.pdf"
	path.Prompt = "Path  "

	title := textinput.New()
	title.Placeholder = "Untitled Note"
	title.Prompt = "Title "

	body := textarea.New()
	body.Placeholder = "Write the note…"
	body.ShowLineNumbers = false
	body.SetHeight(6)

	m := &AddSource{path: path, title: title, body: body}
	m.SetWidth(width)
	m.path.Focus()
	return m
}

func (m *AddSource) SetWidth(w int) {
	m.width = max(min(w-8, 72), 20)
	m.path.SetWidth(m.width - 8)
	m.title.SetWidth(m.width - 8)
	m.body.SetWidth(m.width - 2)
}

func (m *AddSource) focus(f field) tea.Cmd {
	m.field = f
	m.path.Blur()
	m.title.Blur()
	m.body.Blur()
	switch f {
	case fieldPath:
		return m.path.Focus()
	case fieldTitle:
		return m.title.Focus()
	default:
		return m.body.Focus()
	}
}

func (m *AddSource) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc":
			return func() tea.Msg { return CloseMsg{} }
		case "ctrl+f":
			m.tab = tabFile
			return m.focus(fieldPath)
		case "ctrl+e":
			m.tab = tabNote
			return m.focus(fieldTitle)
		case "tab":
			if m.tab == tabFile {
				m.tab = tabNote
				return m.focus(fieldTitle)
			}
			if m.field == fieldTitle {
				return m.focus(fieldBody)
			}
			m.tab = tabFile
			return m.focus(fieldPath)
		case "enter":
			if m.tab == tabFile {
				return m.submit()
			}
			if m.field == fieldTitle {
				return m.focus(fieldBody)
			}
		case "ctrl+s":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldPath:
		m.path, cmd = m.path.Update(msg)
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	default:
		m.body, cmd = m.body.Update(msg)
	}
	return cmd
}

func (m *AddSource) submit() tea.Cmd {
	m.err = ""
	if m.tab == tabFile {
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			m.err = "enter a file path"
			return nil
		}
		return func() tea.Msg { return AddFileMsg{Path: path} }
	}
	text := m.body.Value()
	if strings.TrimSpace(text) == "" {
		m.err = "the note is empty"
		return nil
	}
	title := m.title.Value()
	return func() tea.Msg { return AddNoteMsg{Title: title, Text: text} }
}

func (m *AddSource) View() string {
	t := styles.CurrentTheme()

	tabLabel := func(label string, on bool) string {
		if on {
			return t.S().SelectedBase.Padding(0, 1).Render(label)
		}
		return t.S().Muted.Padding(0, 1).Render(label)
	}
	tabs := tabLabel("File ^f", m.tab == tabFile) + " " + tabLabel("Note ^e", m.tab == tabNote)

	var body string
	if m.tab == tabFile {
		body = m.path.View()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.title.View(), "", m.body.View())
	}

	hint := "enter upload · tab switch · esc cancel"
	if m.tab == tabNote {
		hint = "ctrl+s save · tab next · esc cancel"
	}
	parts := []string{t.S().Title.Render("Add source"), "", tabs, "", body, ""}
	if m.err != "" {
		parts = append(parts, t.S().Error.Render(m.err))
	}
	parts = append(parts, t.S().Subtle.Render(hint))

	return t.S().Modal.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
