package tui

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"saul/config"
	"saul/internal/layout"
	"saul/internal/preferences"
	"saul/internal/theme"
)

const headerH = 1

// relayout sizes every pane from the layout controller's state. Each open
// side panel gives up its innermost column to the drag handle.
func (m *Model) relayout() {
	if m.w <= 0 || m.h <= 0 {
		return
	}
	s := m.layout.State()

	m.header.SetWidth(m.w)
	m.help.Width = m.w
	bodyH := m.bodyHeight()

	m.sources.SetSize(max(s.LeftEffective()-1, 0), bodyH)
	m.notebook.SetSize(max(s.RightEffective()-1, 0), bodyH)
	m.chat.SetSize(max(s.CentralWidth(), 0), bodyH)

	if m.picker != nil {
		m.picker.SetWidth(m.w)
	}
	if m.addSource != nil {
		m.addSource.SetWidth(m.w)
	}
}

func (m *Model) bodyHeight() int {
	return max(m.h-headerH-lipgloss.Height(m.footerView()), 1)
}

func (m *Model) paneVisible(f focusArea) bool {
	switch f {
	case focusLeft:
		return m.layout.IsOpen(layout.Left)
	case focusRight:
		return m.layout.IsOpen(layout.Right)
	default:
		return true
	}
}

func (m *Model) persistWidths() {
	for key, side := range map[string]layout.Side{
		preferences.KeyLeftWidth:  layout.Left,
		preferences.KeyRightWidth: layout.Right,
	} {
		if err := preferences.SetInt(m.ctx, m.prefs, key, m.layout.Width(side)); err != nil {
			return
		}
	}
}

// applyConfig takes a reloaded config file into effect without a restart.
func (m *Model) applyConfig(cfg config.Config) tea.Cmd {
	prev := m.cfg
	m.cfg = cfg
	m.header.SetUser(cfg.UserName)
	m.chat.SetUser(cfg.UserName)
	if cfg.Theme != prev.Theme {
		m.themes.Set(m.ctx, theme.ParseMode(cfg.Theme))
	}
	if cfg.Layout != prev.Layout {
		s := m.layout.State()
		opts := []layout.Option{
			layout.WithPanels(s.LeftOpen, s.RightOpen),
			layout.WithWidths(s.LeftWidth, s.RightWidth),
		}
		if !cfg.Layout.Resizable {
			opts = append(opts, layout.WithFixedWidth())
		}
		m.layout = layout.New(layoutConfig(cfg.Layout), opts...)
		m.layout.SetContainerWidth(m.w)
		m.relayout()
	}
	return m.setStatus("config reloaded", false)
}
