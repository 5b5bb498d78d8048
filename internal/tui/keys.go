package tui

import "github.com/charmbracelet/bubbles/v2/key"

type keyMap struct {
	Help        key.Binding
	Quit        key.Binding
	ToggleLeft  key.Binding
	ToggleRight key.Binding
	Focus       key.Binding
	AddSource   key.Binding
	Cases       key.Binding
	Theme       key.Binding
	NewChat     key.Binding
	Copy        key.Binding
	Shrink      key.Binding
	Grow        key.Binding
	Toggle      key.Binding
	Reset       key.Binding
}

// contextKeyMap adapts the help bindings to the focused pane.
type contextKeyMap struct {
	km    keyMap
	focus focusArea
}

func (c contextKeyMap) ShortHelp() []key.Binding {
	keys := []key.Binding{c.km.Focus, c.km.Cases, c.km.AddSource}
	switch c.focus {
	case focusRight:
		keys = append(keys, c.km.Toggle, c.km.Reset)
	case focusLeft:
		keys = append(keys, c.km.Shrink, c.km.Grow)
	default:
		keys = append(keys, c.km.Copy, c.km.NewChat)
	}
	return append(keys, c.km.Help, c.km.Quit)
}

func (c contextKeyMap) FullHelp() [][]key.Binding {
	return c.km.FullHelp()
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Focus, k.Cases, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.ToggleLeft, k.ToggleRight, k.Shrink, k.Grow},
		{k.Cases, k.AddSource, k.NewChat, k.Copy, k.Theme},
		{k.Toggle, k.Reset, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Help: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	ToggleLeft: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "sources panel"),
	),
	ToggleRight: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "notebook panel"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next pane"),
	),
	AddSource: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "add source"),
	),
	Cases: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "cases"),
	),
	Theme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "theme"),
	),
	NewChat: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new chat"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy answer"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "shrink panel"),
	),
	Grow: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "grow panel"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space"),
		key.WithHelp("space", "tick to-do"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset to-dos"),
	),
}
