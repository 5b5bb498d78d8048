// Package sources is the left notebook panel: the case's uploaded sources
// and its saved chat sessions, with a fuzzy filter over both.
package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"saul/internal/api"
	"saul/internal/session"
	"saul/internal/source"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/styles"
)

// SourceSelectedMsg asks the chat to scope questions to a source.
type SourceSelectedMsg struct{ Source source.Source }

// SessionSelectedMsg asks for a saved session to be loaded.
type SessionSelectedMsg struct{ ID int64 }

type SessionDeleteMsg struct{ ID int64 }

// AddSourceMsg opens the add-source dialog.
type AddSourceMsg struct{}

type entry struct {
	src     source.Source
	session *api.ChatSession
}

func (e entry) title() string {
	if e.session != nil {
		if e.session.Title == "" {
			return session.UntitledChat
		}
		return e.session.Title
	}
	return e.src.Title()
}

type Panel struct {
	w, h    int
	focused bool

	sources  []source.Source
	sessions []api.ChatSession
	loading  bool

	filter    textinput.Model
	filtering bool

	visible []entry
	cursor  int
	offset  int

	now func() time.Time
}

func New() *Panel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	return &Panel{filter: ti, now: time.Now}
}

func (p *Panel) SetSize(w, h int) {
	p.w, p.h = w, h
	p.filter.SetWidth(max(w-4, 1))
}

func (p *Panel) Focus()          { p.focused = true }
func (p *Panel) Blur()           { p.focused = false; p.filtering = false; p.filter.Blur() }
func (p *Panel) Focused() bool   { return p.focused }
func (p *Panel) Filtering() bool { return p.filtering }

func (p *Panel) SetLoading(loading bool) { p.loading = loading }

func (p *Panel) SetSources(srcs []source.Source) {
	p.sources = srcs
	p.refilter()
}

func (p *Panel) SetSessions(sessions []api.ChatSession) {
	p.sessions = sessions
	p.refilter()
}

// Sources returns the unfiltered source list.
func (p *Panel) Sources() []source.Source { return p.sources }

func (p *Panel) refilter() {
	query := strings.TrimSpace(p.filter.Value())

	srcs := make([]entry, len(p.sources))
	for i, s := range p.sources {
		srcs[i] = entry{src: s}
	}
	sess := make([]entry, len(p.sessions))
	for i := range p.sessions {
		sess[i] = entry{session: &p.sessions[i]}
	}

	p.visible = append(match(query, srcs), match(query, sess)...)
	p.cursor = min(p.cursor, max(len(p.visible)-1, 0))
}

// match keeps entries whose titles fuzzy-match query, best first.
func match(query string, entries []entry) []entry {
	if query == "" {
		return entries
	}
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.title()
	}
	matches := fuzzy.Find(query, titles)
	out := make([]entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}

func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	if p.filtering {
		switch key.String() {
		case "esc":
			p.filtering = false
			p.filter.Blur()
			p.filter.SetValue("")
			p.refilter()
			return nil
		case "enter", "down":
			p.filtering = false
			p.filter.Blur()
			return nil
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.refilter()
		return cmd
	}

	switch key.String() {
	case "/":
		p.filtering = true
		return p.filter.Focus()
	case "up", "k":
		p.cursor = max(p.cursor-1, 0)
	case "down", "j":
		p.cursor = min(p.cursor+1, max(len(p.visible)-1, 0))
	case "a":
		return func() tea.Msg { return AddSourceMsg{} }
	case "enter":
		e, ok := p.selected()
		if !ok {
			return nil
		}
		if e.session != nil {
			id := e.session.ID
			return func() tea.Msg { return SessionSelectedMsg{ID: id} }
		}
		src := e.src
		return func() tea.Msg { return SourceSelectedMsg{Source: src} }
	case "d", "delete":
		if e, ok := p.selected(); ok && e.session != nil {
			id := e.session.ID
			return func() tea.Msg { return SessionDeleteMsg{ID: id} }
		}
	}
	return nil
}

func (p *Panel) selected() (entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return entry{}, false
	}
	return p.visible[p.cursor], true
}

func (p *Panel) View() string {
	if p.w <= 0 || p.h <= 0 {
		return ""
	}
	t := styles.CurrentTheme()
	inner := max(p.w-2, 1)

	var head []string
	if p.filtering || p.filter.Value() != "" {
		head = append(head, p.filter.View())
	}

	var lines []string
	cursorLine := -1
	nSources := 0
	for _, e := range p.visible {
		if e.session == nil {
			nSources++
		}
	}

	lines = append(lines, t.S().Subtitle.Render(fmt.Sprintf("Sources (%d)", nSources)))
	if p.loading {
		lines = append(lines, t.S().Muted.Render("loading…"))
	} else if nSources == 0 {
		lines = append(lines, t.S().Muted.Render("none yet, press a to add"))
	}
	for i, e := range p.visible {
		if i == nSources {
			lines = append(lines, "", t.S().Subtitle.Render("History"))
		}
		if i == p.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, p.renderEntry(e, i == p.cursor, inner))
	}
	if nSources == len(p.visible) {
		lines = append(lines, "", t.S().Subtitle.Render("History"), t.S().Muted.Render("no saved chats"))
	}

	body := p.h - len(head)
	if cursorLine >= 0 {
		if cursorLine < p.offset {
			p.offset = cursorLine
		}
		if cursorLine >= p.offset+body {
			p.offset = cursorLine - body + 1
		}
	}
	p.offset = max(0, min(p.offset, len(lines)-body))
	if p.offset > 0 {
		lines = lines[p.offset:]
	}

	content := strings.Join(append(head, lines...), "\n")
	return ansiext.Fit(lipgloss.NewStyle().PaddingLeft(1).Render(content), p.w, p.h)
}

func (p *Panel) renderEntry(e entry, selected bool, width int) string {
	t := styles.CurrentTheme()

	var glyph, title, meta string
	if e.session != nil {
		glyph = t.S().Muted.Render("◦")
		title = e.title()
		at := e.session.UpdatedAt.Time
		if at.IsZero() {
			at = e.session.CreatedAt.Time
		}
		meta = session.RelativeTime(at, p.now())
	} else {
		glyph = statusGlyph(e.src)
		title = e.src.Title()
		if info, ok := e.src.AsFile(); ok && info.SizeBytes > 0 {
			meta = humanize.Bytes(uint64(info.SizeBytes))
		}
	}

	title = ansiext.Escape(title)
	metaW := lipgloss.Width(meta)
	titleW := max(width-metaW-3, 1)
	title = ansiext.FitLine(title, titleW)
	if selected && p.focused {
		title = t.S().SelectedBase.Render(title)
	} else if selected {
		title = t.S().Title.Render(title)
	}
	return glyph + " " + title + " " + t.S().Subtle.Render(meta)
}

func statusGlyph(s source.Source) string {
	t := styles.CurrentTheme()
	info, ok := s.AsFile()
	if !ok {
		return t.S().Muted.Render("#")
	}
	switch info.Status {
	case source.StatusFailed:
		return t.S().Error.Render("✕")
	case source.StatusProcessing:
		return t.S().Warning.Render("◐")
	case source.StatusPending:
		return t.S().Muted.Render("○")
	default:
		return t.S().Success.Render("●")
	}
}
