// Package ansiext has helpers for placing styled text into fixed cells.
package ansiext

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Escape replaces control characters with their Unicode Control Picture
// representations so backend-supplied text renders safely inside the TUI.
// Newlines and tabs are kept.
func Escape(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch {
		case r == '\n' || r == '\t':
			sb.WriteRune(r)
		case r >= 0 && r <= 0x1f:
			sb.WriteRune('␀' + r)
		case r == ansi.DEL:
			sb.WriteRune('␡')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Fit pads or cuts s to exactly w columns and h lines. Lines that are too
// long are truncated with an ellipsis rather than wrapped.
func Fit(s string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = FitLine(line, w)
	}
	return strings.Join(lines, "\n")
}

// FitLine pads or truncates one line to w columns.
func FitLine(line string, w int) string {
	if lipgloss.Width(line) > w {
		line = ansi.Truncate(line, w, "…")
	}
	if pad := w - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// VBar is a one-column vertical rule h lines tall.
func VBar(h int, style lipgloss.Style) string {
	if h <= 0 {
		return ""
	}
	cells := make([]string, h)
	for i := range cells {
		cells[i] = style.Render("│")
	}
	return strings.Join(cells, "\n")
}

// Wrap hard-wraps plain text to w columns.
func Wrap(s string, w int) string {
	if w <= 0 {
		return s
	}
	return ansi.Wrap(s, w, "")
}
