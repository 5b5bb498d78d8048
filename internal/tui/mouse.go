package tui

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// handleMouse drives handle dragging. Clicks elsewhere fall through to the
// focused pane.
func (m *Model) handleMouse(msg tea.Msg) (tea.Cmd, bool) {
	if m.picker != nil || m.addSource != nil {
		return nil, false
	}
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft || !m.inBody(mouse.Y) {
			return nil, false
		}
		side, ok := m.layout.HitTest(mouse.X)
		if !ok {
			return nil, false
		}
		return nil, m.layout.StartResize(side, mouse.X)
	case tea.MouseMotionMsg:
		if _, dragging := m.layout.Dragging(); !dragging {
			return nil, false
		}
		m.layout.DragTo(msg.Mouse().X)
		m.relayout()
		return nil, true
	case tea.MouseReleaseMsg:
		if _, dragging := m.layout.Dragging(); !dragging {
			return nil, false
		}
		m.layout.EndResize()
		m.persistWidths()
		return nil, true
	}
	return nil, false
}

func (m *Model) inBody(y int) bool {
	return y >= headerH && y < headerH+m.bodyHeight()
}
