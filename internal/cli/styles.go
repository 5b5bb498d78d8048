// Package cli holds the non-interactive subcommands: plain or styled text
// on stdout, suitable for scripts.
package cli

import "github.com/charmbracelet/lipgloss"

// Styles for CLI output, matching the TUI palette.
var (
	primary   = lipgloss.Color("#E8B44F")
	secondary = lipgloss.Color("#6B8AFD")
	success   = lipgloss.Color("#87BF47")
	errorCol  = lipgloss.Color("#BF5D47")
	warnCol   = lipgloss.Color("#D9A441")
	muted     = lipgloss.Color("#7F7F7F")

	labelStyle   = lipgloss.NewStyle().Foreground(primary).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(secondary)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(errorCol)
	warnStyle    = lipgloss.NewStyle().Foreground(warnCol)
	doneStyle    = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
)
