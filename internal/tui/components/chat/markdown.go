package chat

import (
	"strings"

	"github.com/charmbracelet/glamour/v2"

	"saul/internal/tui/styles"
)

// RenderMarkdown renders content for the given width, returning the raw text
// if the renderer fails.
func RenderMarkdown(width int, content string) string {
	if width < 1 {
		width = 1
	}

	theme := styles.CurrentTheme()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.S().Markdown),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return strings.TrimSuffix(content, "\n")
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return strings.TrimSuffix(content, "\n")
	}

	return strings.Trim(rendered, "\n")
}
