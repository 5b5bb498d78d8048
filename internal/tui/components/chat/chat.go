// Package chat is the central pane: the transcript of the current session
// and the question input.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"saul/internal/session"
	"saul/internal/source"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/styles"
)

// SubmitMsg carries a question typed by the user.
type SubmitMsg struct{ Text string }

const inputH = 3

type Chat struct {
	w, h    int
	focused bool

	vp    viewport.Model
	input *textarea.Model

	messages []session.Message
	pending  bool
	active   source.Source
	user     string

	rendered    map[string]string
	renderedFor string

	// history holds earlier questions, oldest first. histPos == len(history)
	// means the input is not showing a recalled entry.
	history []string
	histPos int
}

func New() *Chat {
	ta := textarea.New()
	ta.Prompt = "┃ "
	ta.Placeholder = "Ask about this case…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline.SetKeys("ctrl+j")
	ta.SetHeight(inputH)

	return &Chat{
		vp:       viewport.New(),
		input:    ta,
		rendered: make(map[string]string),
	}
}

func (c *Chat) SetSize(w, h int) {
	c.w, c.h = w, h
	c.input.SetWidth(max(w-2, 1))
	c.vp.SetWidth(max(w, 1))
	c.vp.SetHeight(max(h-inputH-2, 1))
	c.refresh()
}

func (c *Chat) Focus() tea.Cmd {
	c.focused = true
	return c.input.Focus()
}

func (c *Chat) Blur() {
	c.focused = false
	c.input.Blur()
}

func (c *Chat) Focused() bool { return c.focused }

func (c *Chat) SetUser(name string) { c.user = name; c.refresh() }

func (c *Chat) SetMessages(msgs []session.Message) {
	c.messages = msgs
	c.refresh()
	c.vp.GotoBottom()
}

func (c *Chat) Messages() []session.Message { return c.messages }

func (c *Chat) Append(m session.Message) {
	c.messages = append(c.messages, m)
	c.refresh()
	c.vp.GotoBottom()
}

func (c *Chat) SetPending(pending bool) {
	c.pending = pending
	c.refresh()
	c.vp.GotoBottom()
}

func (c *Chat) Pending() bool { return c.pending }

func (c *Chat) SetActiveSource(s source.Source) { c.active = s }

func (c *Chat) ActiveSource() source.Source { return c.active }

// SetHistory replaces the recallable questions.
func (c *Chat) SetHistory(h []string) {
	c.history = h
	c.histPos = len(h)
}

// Remember appends a question to the recallable history.
func (c *Chat) Remember(q string) {
	if n := len(c.history); n == 0 || c.history[n-1] != q {
		c.history = append(c.history, q)
	}
	c.histPos = len(c.history)
}

func (c *Chat) recalling() bool {
	return c.histPos < len(c.history) && c.input.Value() == c.history[c.histPos]
}

// recall moves through history with up and down, but only while the input
// is empty or still shows a recalled entry.
func (c *Chat) recall(delta int) bool {
	if c.input.Value() != "" && !c.recalling() {
		return false
	}
	pos := c.histPos + delta
	switch {
	case pos < 0 || len(c.history) == 0:
		return c.recalling()
	case pos >= len(c.history):
		c.histPos = len(c.history)
		c.input.Reset()
	default:
		c.histPos = pos
		c.input.SetValue(c.history[pos])
	}
	return true
}

func (c *Chat) Draft() string { return c.input.Value() }

func (c *Chat) SetDraft(s string) { c.input.SetValue(s) }

// LastAnswer is the text of the most recent assistant message.
func (c *Chat) LastAnswer() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == session.RoleAssistant {
			return c.messages[i].Content
		}
	}
	return ""
}

// InvalidateRender drops cached markdown, e.g. after a theme change.
func (c *Chat) InvalidateRender() {
	c.rendered = make(map[string]string)
	c.refresh()
}

func (c *Chat) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		if !c.focused {
			return nil
		}
		switch key.String() {
		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" || c.pending {
				return nil
			}
			c.input.Reset()
			c.Remember(text)
			return func() tea.Msg { return SubmitMsg{Text: text} }
		case "up":
			if c.recall(-1) {
				return nil
			}
		case "down":
			if c.recall(1) {
				return nil
			}
		case "esc":
			c.active = source.Source{}
			return nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			c.vp, cmd = c.vp.Update(msg)
			return cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if c.focused {
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if _, ok := msg.(tea.MouseWheelMsg); ok {
		c.vp, cmd = c.vp.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (c *Chat) refresh() {
	if c.w <= 0 {
		return
	}
	t := styles.CurrentTheme()
	key := fmt.Sprintf("%d/%s", c.w, t.Name)
	if key != c.renderedFor {
		c.rendered = make(map[string]string)
		c.renderedFor = key
	}
	c.vp.SetContent(c.transcript())
}

func (c *Chat) transcript() string {
	t := styles.CurrentTheme()
	width := max(c.w-2, 1)

	if len(c.messages) == 0 && !c.pending {
		greeting := "Hello"
		if c.user != "" {
			greeting += ", " + c.user
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			t.S().Title.Render(greeting),
			t.S().Muted.Render("Ask a question about the case, or pick a source on the left to narrow it."),
		)
	}

	var blocks []string
	for _, m := range c.messages {
		blocks = append(blocks, c.renderMessage(m, width))
	}
	if c.pending {
		blocks = append(blocks, t.S().Muted.Render("Saul is thinking…"))
	}
	return strings.Join(blocks, "\n\n")
}

func (c *Chat) renderMessage(m session.Message, width int) string {
	if out, ok := c.rendered[m.ID]; ok && m.ID != "" {
		return out
	}
	t := styles.CurrentTheme()

	var out string
	if m.Role == session.RoleUser {
		out = t.S().Subtitle.Render("You") + "\n" + ansiext.Wrap(ansiext.Escape(m.Content), width)
	} else {
		out = t.S().Title.Render("Saul") + "\n" + RenderMarkdown(width, m.Content)
		if r := m.Response; r != nil {
			var meta []string
			if len(r.Sources) > 0 {
				titles := make([]string, 0, len(r.Sources))
				for _, s := range r.Sources {
					titles = append(titles, s.Title)
				}
				meta = append(meta, "Sources: "+strings.Join(titles, ", "))
			}
			if r.Confidence != "" {
				meta = append(meta, "Confidence: "+r.Confidence)
			}
			if len(meta) > 0 {
				out += "\n" + t.S().Muted.Render(ansiext.Wrap(ansiext.Escape(strings.Join(meta, " · ")), width))
			}
		}
	}
	if m.ID != "" {
		c.rendered[m.ID] = out
	}
	return out
}

func (c *Chat) View() string {
	if c.w <= 0 || c.h <= 0 {
		return ""
	}
	t := styles.CurrentTheme()

	chip := t.S().Subtle.Render("all case sources")
	if !c.active.IsZero() {
		label := "# "
		if c.active.Kind() == source.KindFile {
			label = "▤ "
		}
		chip = t.S().Chip.Render(label+ansiext.Escape(c.active.Title())) + t.S().Subtle.Render("  esc to clear")
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		c.vp.View(),
		ansiext.FitLine(" "+chip, c.w),
		"",
		lipgloss.NewStyle().PaddingLeft(1).Render(c.input.View()),
	)
	return ansiext.Fit(view, c.w, c.h)
}
