package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"saul/internal/layout"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/styles"
)

func (m *Model) View() string {
	if m.w <= 0 || m.h <= 0 {
		return ""
	}
	t := styles.CurrentTheme()
	bodyH := m.bodyHeight()
	s := m.layout.State()

	var cols []string
	if s.LeftOpen {
		cols = append(cols,
			ansiext.Fit(m.sources.View(), s.LeftWidth-1, bodyH),
			m.handleView(layout.Left, bodyH, t),
		)
	}
	if cw := s.CentralWidth(); cw > 0 {
		cols = append(cols, ansiext.Fit(m.chat.View(), cw, bodyH))
	}
	if s.RightOpen {
		cols = append(cols,
			m.handleView(layout.Right, bodyH, t),
			ansiext.Fit(m.notebook.View(), s.RightWidth-1, bodyH),
		)
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.footerView(),
	)

	switch {
	case m.picker != nil:
		base = m.centerOverlay(base, m.picker.View())
	case m.addSource != nil:
		base = m.centerOverlay(base, m.addSource.View())
	}
	return base
}

// handleView draws the resize handle, highlighted while it is dragged.
func (m *Model) handleView(side layout.Side, h int, t *styles.Theme) string {
	st := t.S().Subtle
	if dragged, ok := m.layout.Dragging(); ok && dragged == side {
		st = lipgloss.NewStyle().Foreground(t.BorderFocus)
	}
	return ansiext.VBar(h, st)
}

func (m *Model) footerView() string {
	return m.help.View(contextKeyMap{km: m.keys, focus: m.focus})
}

func (m *Model) centerOverlay(base, overlay string) string {
	x := max((m.w-lipgloss.Width(overlay))/2, 0)
	y := max((m.h-lipgloss.Height(overlay))/3, headerH)
	return overlayString(base, overlay, x, y)
}

// overlayString paints overlay over base with its top-left corner at x, y.
func overlayString(base, overlay string, x, y int) string {
	if overlay == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for len(baseLines) < y+len(overlayLines) {
		baseLines = append(baseLines, "")
	}

	for i, line := range overlayLines {
		idx := y + i
		if idx < 0 {
			continue
		}
		row := baseLines[idx]

		left := ansi.Truncate(row, x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(row, x+lipgloss.Width(line), "")
		baseLines[idx] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}
