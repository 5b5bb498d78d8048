package header

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"saul/internal/theme"
	"saul/internal/tui/ansiext"
	"saul/internal/tui/styles"
	"saul/version"
)

type Header struct {
	width int

	caseTitle string
	user      string
	mode      theme.Mode
	status    string
	isError   bool
}

func New() *Header { return &Header{mode: theme.Dark} }

func (h *Header) SetWidth(width int) { h.width = width }

func (h *Header) SetCase(title string) { h.caseTitle = title }

func (h *Header) SetUser(name string) { h.user = name }

func (h *Header) SetMode(mode theme.Mode) { h.mode = mode }

// SetStatus shows a transient message on the right; isError colours it.
func (h *Header) SetStatus(status string, isError bool) {
	h.status, h.isError = status, isError
}

func (h *Header) Status() string { return h.status }

func (h *Header) View() string {
	if h.width <= 0 {
		return ""
	}
	t := styles.CurrentTheme()

	label := t.S().Title.Render("Saul")
	ver := lipgloss.NewStyle().Foreground(t.Primary).Render(" " + version.Get())

	caseTitle := h.caseTitle
	if caseTitle == "" {
		caseTitle = "no case selected"
	}
	left := label + ver + t.S().Muted.Render("  "+ansiext.Escape(caseTitle))

	var right []string
	if h.status != "" {
		st := t.S().Muted
		if h.isError {
			st = t.S().Error
		}
		right = append(right, st.Render(h.status))
	}
	if h.user != "" {
		right = append(right, t.S().Subtle.Render(h.user))
	}
	glyph := "☾"
	if h.mode == theme.Light {
		glyph = "☀"
	}
	right = append(right, t.S().Subtitle.Render(glyph))
	rightSide := strings.Join(right, "  ")

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(rightSide) - 2
	line := " "
	if gap > 2 {
		// Each repeat is 2 chars ("⁘⁙") plus the leading space and trailing "⁘".
		if n := (gap - 2) / 2; n > 0 {
			line = " " + strings.Repeat("⁘⁙", n) + "⁘"
		}
		line = styles.ApplyBoldForegroundGrad(line, t.Primary, t.BgBaseLighter)
	}

	return ansiext.FitLine(left+line+" "+rightSide, h.width)
}
