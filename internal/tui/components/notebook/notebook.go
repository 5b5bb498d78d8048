// Package notebook is the right panel: the analytics table of contents, the
// to-do block built from the procedural checklist, and other reports.
package notebook

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"saul/internal/api"
	"saul/internal/checklist"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/components/chat"
	"saul/internal/tui/styles"
)

// ChecklistHeading is the entry whose report becomes a to-do block.
const ChecklistHeading = api.ChecklistHeading

// OpenAnalyticMsg asks for a report. Refresh bypasses every cache.
type OpenAnalyticMsg struct {
	Heading string
	Type    string
	Refresh bool
}

type ToggleTodoMsg struct{ ItemID string }

type ResetTodosMsg struct{}

// AskHeadingMsg scopes the chat to a table-of-contents heading.
type AskHeadingMsg struct{ Heading string }

type Panel struct {
	w, h    int
	focused bool

	cursor int
	offset int

	open    string
	loading bool
	err     string

	report  string
	list    checklist.Checklist
	hasList bool

	vp viewport.Model
}

func New() *Panel {
	return &Panel{vp: viewport.New()}
}

func (p *Panel) SetSize(w, h int) {
	p.w, p.h = w, h
	p.vp.SetWidth(max(w-2, 1))
	p.vp.SetHeight(max(h-p.tocHeight()-1, 1))
	p.renderReport()
}

func (p *Panel) Focus()        { p.focused = true }
func (p *Panel) Blur()         { p.focused = false }
func (p *Panel) Focused() bool { return p.focused }

// Open is the heading whose content is shown, if any.
func (p *Panel) Open() string { return p.open }

func (p *Panel) Checklist() (checklist.Checklist, bool) { return p.list, p.hasList }

// Clear forgets the shown report, e.g. when the case changes.
func (p *Panel) Clear() {
	p.open, p.loading, p.err, p.report = "", false, "", ""
	p.list, p.hasList = checklist.Checklist{}, false
	p.cursor = min(p.cursor, len(api.AnalyticTypes)-1)
	p.vp.SetContent("")
}

func (p *Panel) SetLoading(heading string) {
	p.Clear()
	p.open, p.loading = heading, true
}

func (p *Panel) SetError(heading string, err error) {
	p.Clear()
	p.open, p.err = heading, err.Error()
}

func (p *Panel) SetReport(heading, report string) {
	p.Clear()
	p.open, p.report = heading, report
	p.renderReport()
	p.vp.GotoTop()
}

func (p *Panel) SetChecklist(heading string, cl checklist.Checklist) {
	cursor := p.cursor
	p.Clear()
	p.open, p.list, p.hasList = heading, cl, true
	p.cursor = min(cursor, p.rows()-1)
}

// InvalidateRender re-renders markdown, e.g. after a theme change.
func (p *Panel) InvalidateRender() { p.renderReport() }

func (p *Panel) tocHeight() int { return len(api.AnalyticTypes) + 2 }

func (p *Panel) rows() int {
	n := len(api.AnalyticTypes)
	if p.hasList {
		n += len(p.list.Items)
	}
	return n
}

// item returns the to-do item under the cursor.
func (p *Panel) item() (checklist.Item, bool) {
	i := p.cursor - len(api.AnalyticTypes)
	if !p.hasList || i < 0 || i >= len(p.list.Items) {
		return checklist.Item{}, false
	}
	return p.list.Items[i], true
}

func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "up", "k":
		p.cursor = max(p.cursor-1, 0)
	case "down", "j":
		p.cursor = min(p.cursor+1, p.rows()-1)
	case "enter", "space", " ":
		if it, ok := p.item(); ok {
			id := it.ID
			return func() tea.Msg { return ToggleTodoMsg{ItemID: id} }
		}
		if key.String() != "enter" || p.cursor >= len(api.AnalyticTypes) {
			return nil
		}
		a := api.AnalyticTypes[p.cursor]
		return func() tea.Msg { return OpenAnalyticMsg{Heading: a.Heading, Type: a.Type} }
	case "r":
		if p.open == "" {
			return nil
		}
		heading := p.open
		typ, _ := api.AnalyticType(heading)
		return func() tea.Msg { return OpenAnalyticMsg{Heading: heading, Type: typ, Refresh: true} }
	case "R":
		if p.hasList {
			return func() tea.Msg { return ResetTodosMsg{} }
		}
	case "s":
		if p.cursor < len(api.AnalyticTypes) {
			heading := api.AnalyticTypes[p.cursor].Heading
			return func() tea.Msg { return AskHeadingMsg{Heading: heading} }
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		p.vp, cmd = p.vp.Update(msg)
		return cmd
	}
	return nil
}

func (p *Panel) renderReport() {
	if p.report == "" || p.w <= 0 {
		return
	}
	p.vp.SetContent(chat.RenderMarkdown(max(p.w-3, 1), p.report))
}

func (p *Panel) View() string {
	if p.w <= 0 || p.h <= 0 {
		return ""
	}
	t := styles.CurrentTheme()
	inner := max(p.w-2, 1)

	lines := []string{t.S().Subtitle.Render("Notebook")}
	for i, a := range api.AnalyticTypes {
		marker := "  "
		if a.Heading == p.open {
			marker = "● "
		}
		label := ansiext.FitLine(a.Heading, max(inner-2, 1))
		switch {
		case i == p.cursor && p.focused:
			label = t.S().SelectedBase.Render(label)
		case i == p.cursor:
			label = t.S().Title.Render(label)
		}
		lines = append(lines, t.S().Muted.Render(marker)+label)
	}
	lines = append(lines, t.S().Subtle.Render(strings.Repeat("─", inner)))

	bodyH := p.h - len(lines)
	var body string
	switch {
	case p.open == "":
		body = t.S().Muted.Render("Press enter on a heading to open it.")
	case p.loading:
		body = t.S().Muted.Render("Generating " + p.open + "…")
	case p.err != "":
		body = t.S().Error.Render(ansiext.Wrap(ansiext.Escape(p.err), inner))
	case p.hasList:
		body = p.todoView(inner, bodyH)
	default:
		body = p.vp.View()
	}

	content := strings.Join(lines, "\n") + "\n" + body
	return ansiext.Fit(lipgloss.NewStyle().PaddingLeft(1).Render(content), p.w, p.h)
}

func (p *Panel) todoView(width, height int) string {
	t := styles.CurrentTheme()
	done, total := p.list.Progress()

	head := []string{
		t.S().Title.Render("To-do") + t.S().Muted.Render(fmt.Sprintf("  %d/%d", done, total)),
		styles.Bar(done, total, width),
	}
	if total == 0 {
		head = append(head, t.S().Muted.Render("No actionable steps found in this report."))
		return strings.Join(head, "\n")
	}

	var lines []string
	cursorLine := -1
	for i, it := range p.list.Items {
		row := len(api.AnalyticTypes) + i
		box := "[ ] "
		label := ansiext.Escape(it.Label)
		style := t.S().Text
		if it.Done {
			box = "[✓] "
			style = t.S().Done
		}
		if row == p.cursor {
			cursorLine = len(lines)
			if p.focused {
				style = t.S().SelectedBase
			}
		}
		lines = append(lines, t.S().Success.Render(box)+style.Render(ansiext.FitLine(label, max(width-4, 1))))
		if it.Description != "" {
			desc := ansiext.Wrap(ansiext.Escape(it.Description), max(width-4, 1))
			for _, l := range strings.Split(desc, "\n") {
				lines = append(lines, "    "+t.S().Muted.Render(l))
			}
		}
	}
	lines = append(lines, "", t.S().Subtle.Render("space toggle · R reset · r refresh"))

	avail := max(height-len(head), 1)
	if cursorLine >= 0 {
		if cursorLine < p.offset {
			p.offset = cursorLine
		}
		if cursorLine >= p.offset+avail {
			p.offset = cursorLine - avail + 1
		}
	}
	p.offset = max(0, min(p.offset, len(lines)-avail))
	lines = lines[p.offset:]

	return strings.Join(append(head, lines...), "\n")
}
