package layout

// Config holds the width bounds shared by both panels and the minimum width
// reserved for the central pane. Units are whatever the host measures in:
// pixels for DefaultConfig, terminal cells for CellConfig.
type Config struct {
	SidebarWidth    int
	SidebarMinWidth int
	SidebarMaxWidth int
	ChatMinWidth    int
}

// DefaultConfig mirrors the web client's pixel constants.
func DefaultConfig() Config {
	return Config{
		SidebarWidth:    320,
		SidebarMinWidth: 200,
		SidebarMaxWidth: 520,
		ChatMinWidth:    420,
	}
}

// CellConfig is DefaultConfig scaled down to terminal columns.
func CellConfig() Config {
	return Config{
		SidebarWidth:    32,
		SidebarMinWidth: 20,
		SidebarMaxWidth: 52,
		ChatMinWidth:    42,
	}
}

// Normalize repairs a config so that 0 < min <= initial <= max and the chat
// minimum is non-negative. Zero fields fall back to CellConfig values.
func (c Config) Normalize() Config {
	def := CellConfig()
	if c.SidebarMinWidth <= 0 {
		c.SidebarMinWidth = def.SidebarMinWidth
	}
	if c.SidebarMaxWidth <= 0 {
		c.SidebarMaxWidth = def.SidebarMaxWidth
	}
	if c.SidebarMaxWidth < c.SidebarMinWidth {
		c.SidebarMinWidth, c.SidebarMaxWidth = c.SidebarMaxWidth, c.SidebarMinWidth
	}
	if c.SidebarWidth <= 0 {
		c.SidebarWidth = def.SidebarWidth
	}
	c.SidebarWidth = clamp(c.SidebarWidth, c.SidebarMinWidth, c.SidebarMaxWidth)
	if c.ChatMinWidth < 0 {
		c.ChatMinWidth = 0
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
