// Package layout decides how two collapsible side panels share a container
// with a central pane that must keep a minimum width.
//
// The controller is plain arithmetic over integers. It never fails: out of
// range input is clamped and panels are closed, right before left, whenever
// the central pane would otherwise get too narrow.
package layout

// Side identifies one of the two panels.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Other returns the opposite panel.
func (s Side) Other() Side {
	if s == Right {
		return Left
	}
	return Right
}

// State is a snapshot consumed by the view layer to size the panes.
type State struct {
	LeftOpen       bool
	RightOpen      bool
	LeftWidth      int
	RightWidth     int
	ContainerWidth int
}

// LeftEffective is the width the left panel occupies, zero when closed.
func (s State) LeftEffective() int {
	if !s.LeftOpen {
		return 0
	}
	return s.LeftWidth
}

// RightEffective is the width the right panel occupies, zero when closed.
func (s State) RightEffective() int {
	if !s.RightOpen {
		return 0
	}
	return s.RightWidth
}

// CentralWidth is what is left for the central pane. It may be negative when
// the container is narrower than the open panels.
func (s State) CentralWidth() int {
	return s.ContainerWidth - s.LeftEffective() - s.RightEffective()
}

type drag struct {
	side       Side
	startX     int
	startWidth int
}

// Controller owns the open/width state of both panels.
type Controller struct {
	cfg       Config
	resizable bool

	leftOpen, rightOpen   bool
	leftWidth, rightWidth int

	container int
	measured  bool

	drag *drag
}

// Option customises a Controller.
type Option func(*Controller)

// WithFixedWidth disables drag resizing; both panels keep SidebarWidth.
func WithFixedWidth() Option {
	return func(c *Controller) { c.resizable = false }
}

// WithPanels sets the initial open flags. Both panels start open otherwise.
func WithPanels(leftOpen, rightOpen bool) Option {
	return func(c *Controller) {
		c.leftOpen = leftOpen
		c.rightOpen = rightOpen
	}
}

// WithWidths restores previously chosen panel widths, clamped to bounds.
func WithWidths(left, right int) Option {
	return func(c *Controller) {
		if left > 0 {
			c.leftWidth = clamp(left, c.cfg.SidebarMinWidth, c.cfg.SidebarMaxWidth)
		}
		if right > 0 {
			c.rightWidth = clamp(right, c.cfg.SidebarMinWidth, c.cfg.SidebarMaxWidth)
		}
	}
}

// New creates a controller. Until SetContainerWidth is called the container
// size is unknown and toggles are applied without a space check.
func New(cfg Config, opts ...Option) *Controller {
	cfg = cfg.Normalize()
	c := &Controller{
		cfg:        cfg,
		resizable:  true,
		leftOpen:   true,
		rightOpen:  true,
		leftWidth:  cfg.SidebarWidth,
		rightWidth: cfg.SidebarWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.resizable {
		c.leftWidth = cfg.SidebarWidth
		c.rightWidth = cfg.SidebarWidth
	}
	return c
}

// Config returns the normalized bounds in use.
func (c *Controller) Config() Config { return c.cfg }

// Resizable reports whether drag resizing is enabled.
func (c *Controller) Resizable() bool { return c.resizable }

// State returns the current snapshot.
func (c *Controller) State() State {
	return State{
		LeftOpen:       c.leftOpen,
		RightOpen:      c.rightOpen,
		LeftWidth:      c.leftWidth,
		RightWidth:     c.rightWidth,
		ContainerWidth: c.container,
	}
}

// IsOpen reports whether the given panel is visible.
func (c *Controller) IsOpen(side Side) bool {
	if side == Right {
		return c.rightOpen
	}
	return c.leftOpen
}

// Width returns the configured width of a panel regardless of visibility.
func (c *Controller) Width(side Side) int {
	if side == Right {
		return c.rightWidth
	}
	return c.leftWidth
}

func (c *Controller) effective(side Side) int {
	if !c.IsOpen(side) {
		return 0
	}
	return c.Width(side)
}

func (c *Controller) setOpen(side Side, open bool) {
	if side == Right {
		c.rightOpen = open
	} else {
		c.leftOpen = open
	}
	if !open && c.drag != nil && c.drag.side == side {
		c.drag = nil
	}
}

func (c *Controller) setWidth(side Side, w int) {
	if side == Right {
		c.rightWidth = w
	} else {
		c.leftWidth = w
	}
}

func (c *Controller) central() int {
	return c.container - c.effective(Left) - c.effective(Right)
}

// ToggleLeft flips the left panel.
func (c *Controller) ToggleLeft() { c.Toggle(Left) }

// ToggleRight flips the right panel.
func (c *Controller) ToggleRight() { c.Toggle(Right) }

// Toggle flips one panel. Opening a panel first closes the other one when
// both would not fit; a panel that cannot fit even on its own stays closed.
func (c *Controller) Toggle(side Side) {
	if c.IsOpen(side) {
		c.setOpen(side, false)
		return
	}
	if c.measured {
		other := side.Other()
		if c.IsOpen(other) && c.container-c.Width(side)-c.Width(other) < c.cfg.ChatMinWidth {
			c.setOpen(other, false)
		}
		if c.container-c.Width(side) < c.cfg.ChatMinWidth {
			return
		}
	}
	c.setOpen(side, true)
	c.reconcile()
}

// SetContainerWidth records the rendered container width and collapses
// panels, right first, until the central pane fits.
func (c *Controller) SetContainerWidth(w int) {
	if w < 0 {
		w = 0
	}
	c.container = w
	c.measured = true
	c.reconcile()
}

func (c *Controller) reconcile() {
	if !c.measured {
		return
	}
	if c.central() >= c.cfg.ChatMinWidth {
		return
	}
	if c.rightOpen {
		c.setOpen(Right, false)
		if c.central() >= c.cfg.ChatMinWidth {
			return
		}
	}
	if c.leftOpen {
		c.setOpen(Left, false)
	}
}

// StartResize begins a drag on an open panel. It reports whether a drag
// actually started.
func (c *Controller) StartResize(side Side, pointerX int) bool {
	if !c.resizable || !c.IsOpen(side) {
		return false
	}
	c.drag = &drag{side: side, startX: pointerX, startWidth: c.Width(side)}
	return true
}

// Dragging reports the panel being resized, if any.
func (c *Controller) Dragging() (Side, bool) {
	if c.drag == nil {
		return Left, false
	}
	return c.drag.side, true
}

// DragTo moves the active drag to pointerX. The new width is clamped to the
// panel bounds and to whatever keeps the central pane at its minimum; the
// other panel is never closed by a drag.
func (c *Controller) DragTo(pointerX int) {
	d := c.drag
	if d == nil {
		return
	}
	delta := pointerX - d.startX
	if d.side == Right {
		delta = -delta
	}
	c.applyWidth(d.side, d.startWidth+delta)
}

// EndResize clears all transient drag state.
func (c *Controller) EndResize() {
	c.drag = nil
}

// Nudge grows or shrinks an open panel by delta, honouring the same bounds
// as a drag. It is the keyboard equivalent of a short drag.
func (c *Controller) Nudge(side Side, delta int) {
	if !c.resizable || !c.IsOpen(side) {
		return
	}
	c.applyWidth(side, c.Width(side)+delta)
}

func (c *Controller) applyWidth(side Side, want int) {
	cur := c.Width(side)
	w := clamp(want, c.cfg.SidebarMinWidth, c.cfg.SidebarMaxWidth)
	if c.measured && w > cur {
		limit := c.container - c.effective(side.Other()) - c.cfg.ChatMinWidth
		if w > limit {
			w = max(limit, cur)
		}
	}
	c.setWidth(side, w)
}

// HitTest reports whether column x is the drag handle of an open panel. The
// handle is the panel's innermost column, next to the central pane.
func (c *Controller) HitTest(x int) (Side, bool) {
	if !c.resizable || !c.measured {
		return Left, false
	}
	if c.leftOpen && x == c.leftWidth-1 {
		return Left, true
	}
	if c.rightOpen && x == c.container-c.rightWidth {
		return Right, true
	}
	return Left, false
}
