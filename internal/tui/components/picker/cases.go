// Package picker is the case selection overlay.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sahilm/fuzzy"

	"saul/internal/api"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/styles"
)

// ChosenMsg reports the picked case.
type ChosenMsg struct{ Case api.Case }

type CloseMsg struct{}

const maxRows = 10

type caseList []api.Case

func (c caseList) String(i int) string {
	return fmt.Sprintf("%s %s #%d", c[i].Title(), c[i].ClientName, c[i].CaseID)
}

func (c caseList) Len() int { return len(c) }

type Cases struct {
	width   int
	all     caseList
	visible []api.Case
	cursor  int
	filter  textinput.Model
	loading bool
	err     string
}

func New(width int) *Cases {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "search cases"
	ti.Focus()
	p := &Cases{filter: ti, loading: true}
	p.SetWidth(width)
	return p
}

func (p *Cases) SetWidth(w int) {
	p.width = max(min(w-8, 70), 24)
	p.filter.SetWidth(p.width - 4)
}

func (p *Cases) SetCases(cases []api.Case, err error) {
	p.loading = false
	p.all = cases
	p.err = ""
	if err != nil {
		p.err = err.Error()
	}
	p.refilter()
}

func (p *Cases) refilter() {
	query := strings.TrimSpace(p.filter.Value())
	if query == "" {
		p.visible = p.all
	} else {
		matches := fuzzy.FindFrom(query, p.all)
		p.visible = make([]api.Case, len(matches))
		for i, m := range matches {
			p.visible[i] = p.all[m.Index]
		}
	}
	p.cursor = max(0, min(p.cursor, len(p.visible)-1))
}

func (p *Cases) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc":
			return func() tea.Msg { return CloseMsg{} }
		case "up", "ctrl+p":
			p.cursor = max(p.cursor-1, 0)
			return nil
		case "down", "ctrl+n":
			p.cursor = min(p.cursor+1, max(len(p.visible)-1, 0))
			return nil
		case "enter":
			if p.cursor < len(p.visible) {
				c := p.visible[p.cursor]
				return func() tea.Msg { return ChosenMsg{Case: c} }
			}
			return nil
		}
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.refilter()
	return cmd
}

func (p *Cases) View() string {
	t := styles.CurrentTheme()
	inner := p.width - 4

	rows := []string{t.S().Title.Render("Open case"), "", p.filter.View(), ""}
	switch {
	case p.loading:
		rows = append(rows, t.S().Muted.Render("loading cases…"))
	case p.err != "":
		rows = append(rows, t.S().Error.Render(ansiext.Wrap(p.err, inner)))
	case len(p.visible) == 0:
		rows = append(rows, t.S().Muted.Render("no matching cases"))
	}

	start := max(0, p.cursor-maxRows+1)
	for i := start; i < len(p.visible) && i < start+maxRows; i++ {
		c := p.visible[i]
		id := fmt.Sprintf("#%d", c.CaseID)
		label := ansiext.FitLine(ansiext.Escape(c.Title()), max(inner-lipgloss.Width(id)-16, 1))
		client := ansiext.FitLine(ansiext.Escape(c.ClientName), 14)
		line := label + " " + t.S().Muted.Render(client) + " " + t.S().Subtle.Render(id)
		if i == p.cursor {
			line = t.S().SelectedBase.Render(ansiext.FitLine(label+" "+client+" "+id, inner))
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", t.S().Subtle.Render("↑/↓ move · enter open · esc cancel"))

	return t.S().Modal.Width(p.width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
