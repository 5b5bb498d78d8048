package tui

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

type keyEventContext struct {
	msg tea.Msg
	key string
}

type keyHandler func(*Model, keyEventContext) (tea.Cmd, bool)

func defaultKeyHandlers() map[string]keyHandler {
	return map[string]keyHandler{
		"ctrl+c": handleQuitKey,
		"ctrl+g": handleHelpToggleKey,
		"tab":    handleTabKey,
		"ctrl+l": handleToggleLeftKey,
		"ctrl+r": handleToggleRightKey,
		"ctrl+o": handleAddSourceKey,
		"ctrl+k": handleCasesKey,
		"ctrl+t": handleThemeKey,
		"ctrl+n": handleNewChatKey,
		"ctrl+y": handleCopyKey,
		"[":      handleShrinkKey,
		"]":      handleGrowKey,
	}
}

func keyString(msg tea.Msg) (string, bool) {
	switch v := msg.(type) {
	case tea.KeyPressMsg:
		return v.String(), true
	default:
		return "", false
	}
}

func handleQuitKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.Close()
	return tea.Quit, true
}

func handleHelpToggleKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.showHelp = !m.showHelp
	m.help.ShowAll = m.showHelp
	m.relayout()
	return nil, true
}

// handleTabKey cycles chat -> notebook -> sources, skipping closed panels.
func handleTabKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	if m.focus == focusLeft && m.sources.Filtering() {
		return nil, false
	}
	order := []focusArea{focusChat, focusRight, focusLeft}
	next := m.focus
	for range order {
		next = order[(indexOf(order, next)+1)%len(order)]
		if m.paneVisible(next) {
			break
		}
	}
	return m.setFocus(next), true
}

func indexOf(order []focusArea, f focusArea) int {
	for i, o := range order {
		if o == f {
			return i
		}
	}
	return 0
}

func handleToggleLeftKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.layout.ToggleLeft()
	return m.afterToggle(), true
}

func handleToggleRightKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.layout.ToggleRight()
	return m.afterToggle(), true
}

// afterToggle moves focus off a pane that just closed.
func (m *Model) afterToggle() tea.Cmd {
	m.relayout()
	if !m.paneVisible(m.focus) {
		return m.setFocus(focusChat)
	}
	return nil
}

func handleAddSourceKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	return m.openAddSource(), true
}

func handleCasesKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	return m.openPicker(), true
}

func handleThemeKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.themes.Toggle(m.ctx)
	return nil, true
}

func handleNewChatKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	m.startNewChat()
	return m.setFocus(focusChat), true
}

func handleCopyKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	return m.copyLastAnswer(), true
}

func handleShrinkKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	if m.focus == focusChat || m.sources.Filtering() {
		return nil, false
	}
	return m.nudge(-2), true
}

func handleGrowKey(m *Model, _ keyEventContext) (tea.Cmd, bool) {
	if m.focus == focusChat || m.sources.Filtering() {
		return nil, false
	}
	return m.nudge(2), true
}

// Main key event dispatcher

func (m *Model) handleKeyEvent(msg tea.Msg) (tea.Cmd, bool) {
	keyStr, ok := keyString(msg)
	if !ok {
		return nil, false
	}
	if m.keyHandlers == nil {
		m.keyHandlers = defaultKeyHandlers()
	}
	if handler, ok := m.keyHandlers[keyStr]; ok {
		return handler(m, keyEventContext{msg: msg, key: keyStr})
	}
	return nil, false
}
