package styles

import (
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/glamour/v2/ansi"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"saul/internal/theme"
)

const (
	defaultListIndent uint = 2
	defaultMargin     uint = 2
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// Theme is one palette plus the styles derived from it.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Accent    color.Color

	BgBase        color.Color
	BgBaseLighter color.Color
	BgSubtle      color.Color
	BgOverlay     color.Color

	FgBase      color.Color
	FgMuted     color.Color
	FgMutedMore color.Color
	FgSubtle    color.Color
	FgSelected  color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *Styles
}

// Styles are common pre-built lipgloss styles.
type Styles struct {
	Base         lipgloss.Style
	SelectedBase lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style

	Done    lipgloss.Style
	Chip    lipgloss.Style
	Modal   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Markdown ansi.StyleConfig
	Help     help.Styles
}

// S returns lazily-initialized styles tied to the theme colors.
func (t *Theme) S() *Styles {
	if t.styles != nil {
		return t.styles
	}
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	s := &Styles{
		Base:         base,
		SelectedBase: base.Background(t.Primary).Foreground(t.FgSelected),
		Title:        base.Foreground(t.Primary).Bold(true),
		Subtitle:     base.Foreground(t.Secondary).Bold(true),
		Text:         base,
		Muted:        base.Foreground(t.FgMuted),
		Subtle:       base.Foreground(t.FgSubtle),
		Done:         base.Foreground(t.FgMuted).Strikethrough(true),
		Chip:         base.Foreground(t.FgSelected).Background(t.Secondary).Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(1, 2),
		Success: base.Foreground(t.Success),
		Error:   base.Foreground(t.Error),
		Warning: base.Foreground(t.Warning),
	}

	s.Markdown = markdownStyle(t)

	s.Help = help.Styles{
		Ellipsis:       base.Foreground(t.FgMuted).SetString("…"),
		ShortKey:       base.Foreground(t.FgMuted),
		ShortDesc:      base.Foreground(t.FgMutedMore),
		ShortSeparator: base.Foreground(t.FgMuted).SetString(" "),
		FullKey:        base.Foreground(t.FgMuted).Bold(true),
		FullDesc:       base.Foreground(t.FgBase),
		FullSeparator:  base.Foreground(t.FgSubtle).SetString("\n"),
	}

	t.styles = s
	return s
}

func markdownStyle(t *Theme) ansi.StyleConfig {
	text, heading, rule, code, codeBg := charmtone.Smoke, charmtone.Malibu, charmtone.Charcoal, "#f7c0af", "#2a2a2e"
	if !t.IsDark {
		text, heading, rule, code, codeBg = charmtone.Pepper, charmtone.Charple, charmtone.Squid, "#9c3d26", "#efeae6"
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(text.Hex()),
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{},
			Indent:         uintPtr(1),
			IndentToken:    stringPtr("│ "),
		},
		List: ansi.StyleList{
			LevelIndent: defaultListIndent,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       stringPtr(heading.Hex()),
				Bold:        boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr(charmtone.Zest.Hex()),
				BackgroundColor: stringPtr(charmtone.Charple.Hex()),
				Bold:            boolPtr(true),
			},
		},
		H6: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(charmtone.Guac.Hex()),
				Bold:  boolPtr(false),
			},
		},
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr(rule.Hex()),
			Format: "\n--------\n",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Task: ansi.StyleTask{
			StylePrimitive: ansi.StylePrimitive{},
			Ticked:         "[✓] ",
			Unticked:       "[ ] ",
		},
		Link: ansi.StylePrimitive{
			Color:     stringPtr(charmtone.Zinc.Hex()),
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: stringPtr(charmtone.Guac.Hex()),
			Bold:  boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix:          " ",
				Suffix:          " ",
				Color:           stringPtr(code),
				BackgroundColor: stringPtr(codeBg),
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: stringPtr(rule.Hex()),
				},
				Margin: uintPtr(defaultMargin),
			},
		},
		Table: ansi.StyleTable{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{},
			},
		},
		DefinitionDescription: ansi.StylePrimitive{
			BlockPrefix: "\n ",
		},
	}
}

func Dark() *Theme {
	primary := lipgloss.Color("#f7c0af")
	secondary := lipgloss.Color("#3ccad7")

	return &Theme{
		Name:   "Dark",
		IsDark: true,

		Primary:   primary,
		Secondary: secondary,
		Accent:    secondary,

		BgBase:        color.RGBA{0x10, 0x10, 0x12, 0xff},
		BgBaseLighter: lipgloss.Color("#3ccad7"),
		BgSubtle:      color.RGBA{0x12, 0x12, 0x14, 0xff},
		BgOverlay:     color.RGBA{0x0c, 0x0c, 0x0f, 0x99},

		FgBase:      color.RGBA{0xdd, 0xdd, 0xdd, 0xff},
		FgMuted:     color.RGBA{0x7f, 0x7f, 0x7f, 0xff},
		FgMutedMore: color.RGBA{0x58, 0x58, 0x58, 0xff},
		FgSubtle:    color.RGBA{0x88, 0x88, 0x88, 0xff},
		FgSelected:  color.RGBA{0x0b, 0x0b, 0x0d, 0xff},

		Border:      color.RGBA{0x33, 0x33, 0x38, 0xff},
		BorderFocus: primary,

		Success: color.RGBA{0x87, 0xbf, 0x47, 0xff},
		Error:   color.RGBA{0xbf, 0x5d, 0x47, 0xff},
		Warning: color.RGBA{0xff, 0xc1, 0x07, 0xff},
		Info:    color.RGBA{0x64, 0xb5, 0xf6, 0xff},
	}
}

func Light() *Theme {
	primary := lipgloss.Color("#b4553c")
	secondary := lipgloss.Color("#16808a")

	return &Theme{
		Name:   "Light",
		IsDark: false,

		Primary:   primary,
		Secondary: secondary,
		Accent:    secondary,

		BgBase:        color.RGBA{0xfa, 0xf8, 0xf5, 0xff},
		BgBaseLighter: lipgloss.Color("#7fd4dc"),
		BgSubtle:      color.RGBA{0xf0, 0xec, 0xe8, 0xff},
		BgOverlay:     color.RGBA{0xe8, 0xe4, 0xe0, 0xcc},

		FgBase:      color.RGBA{0x22, 0x22, 0x26, 0xff},
		FgMuted:     color.RGBA{0x6b, 0x6b, 0x70, 0xff},
		FgMutedMore: color.RGBA{0x9a, 0x9a, 0x9f, 0xff},
		FgSubtle:    color.RGBA{0x80, 0x80, 0x85, 0xff},
		FgSelected:  color.RGBA{0xff, 0xff, 0xff, 0xff},

		Border:      color.RGBA{0xd4, 0xd0, 0xcc, 0xff},
		BorderFocus: primary,

		Success: color.RGBA{0x3d, 0x8b, 0x2f, 0xff},
		Error:   color.RGBA{0xb0, 0x3a, 0x2e, 0xff},
		Warning: color.RGBA{0xa8, 0x6b, 0x00, 0xff},
		Info:    color.RGBA{0x1f, 0x6f, 0xb5, 0xff},
	}
}

var (
	mu      sync.RWMutex
	current = Dark()
)

// SetMode switches the palette every view renders with.
func SetMode(mode theme.Mode) {
	mu.Lock()
	defer mu.Unlock()
	if mode == theme.Light {
		current = Light()
	} else {
		current = Dark()
	}
}

func CurrentTheme() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// ApplyBoldForegroundGrad applies a simple foreground gradient across text.
// Falls back to solid color if the terminal doesn't support TrueColor.
func ApplyBoldForegroundGrad(text string, from, to color.Color) string {
	rs := []rune(text)
	n := len(rs)
	if n == 0 {
		return ""
	}

	c1, _ := colorful.MakeColor(from)
	if termenv.ColorProfile() != termenv.TrueColor {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c1.Hex())).Bold(true).Render(text)
	}

	c2, _ := colorful.MakeColor(to)
	var out string
	for i, r := range rs {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		hex := c1.BlendLab(c2, t).Clamped().Hex()
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true).Render(string(r))
	}
	return out
}

// Bar renders a progress bar of width cells for done out of total.
func Bar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	t := CurrentTheme()
	on := lipgloss.NewStyle().Foreground(t.Success).Render(repeat("━", filled))
	off := lipgloss.NewStyle().Foreground(t.FgMutedMore).Render(repeat("━", width-filled))
	return on + off
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
