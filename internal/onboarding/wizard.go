// Package onboarding is the first-run setup: a short form that points saul
// at a backend and writes config.yaml.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"saul/config"
	"saul/internal/api"
)

const wizardMaxWidth = 72

// ErrCancelled is returned when the user leaves the form.
var ErrCancelled = errors.New("setup cancelled")

var (
	wizardRed       = lipgloss.AdaptiveColor{Light: "#C4314B", Dark: "#FE5F86"}
	wizardPrimary   = lipgloss.AdaptiveColor{Light: "#8A5A00", Dark: "#E8B44F"}
	wizardBgLighter = lipgloss.Color("#6B8AFD")
)

type wizardStyles struct {
	Base,
	HeaderText,
	ErrorHeaderText,
	Help lipgloss.Style
}

func newWizardStyles(lg *lipgloss.Renderer) wizardStyles {
	s := wizardStyles{}
	s.Base = lg.NewStyle().Padding(0, 1)
	s.HeaderText = lg.NewStyle().Foreground(wizardPrimary).Bold(true)
	s.ErrorHeaderText = s.HeaderText.Foreground(wizardRed)
	s.Help = lg.NewStyle().Foreground(lipgloss.Color("240"))
	return s
}

// Answers holds what the form collects.
type Answers struct {
	BackendURL string
	UserName   string
	Theme      string
	Resizable  bool
}

func answersFrom(cfg config.Config) *Answers {
	return &Answers{
		BackendURL: cfg.BackendURL,
		UserName:   cfg.UserName,
		Theme:      strings.ToLower(cfg.Theme),
		Resizable:  cfg.Layout.Resizable,
	}
}

// Apply copies the answers onto cfg.
func (a *Answers) Apply(cfg config.Config) config.Config {
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(a.BackendURL), "/")
	cfg.UserName = strings.TrimSpace(a.UserName)
	cfg.Theme = a.Theme
	cfg.Layout.Resizable = a.Resizable
	return cfg
}

func validateBackendURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("enter an http(s) URL such as http://localhost:8000/api")
	}
	return nil
}

type wizardModel struct {
	width     int
	styles    wizardStyles
	form      *huh.Form
	cancelled bool
}

func newWizardModel(a *Answers) *wizardModel {
	styles := newWizardStyles(lipgloss.DefaultRenderer())
	m := &wizardModel{width: wizardMaxWidth, styles: styles}

	theme := createHuhTheme()
	theme.FieldSeparator = lipgloss.NewStyle().SetString("\n")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Where the case-management API is served.").
				Placeholder(api.DefaultBaseURL).
				Validate(validateBackendURL).
				Value(&a.BackendURL),
			huh.NewInput().
				Title("Your name").
				Description("Shown next to your questions in the chat.").
				Value(&a.UserName),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOption("Dark", "dark"), huh.NewOption("Light", "light")).
				Value(&a.Theme),
			huh.NewConfirm().
				Title("Allow resizing the side panels?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.Resizable),
		),
	).
		WithTheme(theme).
		WithWidth(wizardMaxWidth).
		WithShowHelp(true).
		WithShowErrors(false)

	return m
}

func (m *wizardModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = min(msg.Width, wizardMaxWidth) - m.styles.Base.GetHorizontalFrameSize()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, tea.Batch(cmd, tea.Quit)
	}
	return m, cmd
}

func (m *wizardModel) View() string {
	if m.cancelled {
		return m.styles.Base.Render(m.appBoundaryView("Setup cancelled")) + "\n"
	}
	if m.form.State == huh.StateCompleted {
		return ""
	}
	header := m.appBoundaryView("Saul setup")
	if errs := m.errorView(); errs != "" {
		header = m.appErrorBoundaryView(errs)
	}
	return m.styles.Base.Render(header+"\n\n"+m.form.View()) + "\n"
}

func (m *wizardModel) errorView() string {
	var out []string
	for _, err := range m.form.Errors() {
		out = append(out, err.Error())
	}
	return strings.Join(out, "\n")
}

func (m *wizardModel) appBoundaryView(text string) string {
	label := m.styles.HeaderText.Render(text)
	pattern := " " + strings.Repeat("⁘⁙", max(m.width-lipgloss.Width(label), 0)/2)
	return lipgloss.JoinHorizontal(lipgloss.Top, label, applyGradient(pattern, wizardPrimary, wizardBgLighter))
}

func (m *wizardModel) appErrorBoundaryView(text string) string {
	label := m.styles.ErrorHeaderText.Render(text)
	line := " " + strings.Repeat("/", max(m.width-lipgloss.Width(label)-1, 0))
	return lipgloss.JoinHorizontal(lipgloss.Top, label, lipgloss.NewStyle().Foreground(wizardRed).Render(line))
}

// RunWizard asks for the basics, checks that the backend answers and writes
// the result to path. The check is advisory: an unreachable backend is
// reported but the config is saved anyway.
func RunWizard(ctx context.Context, path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
	}
	answers := answersFrom(cfg)

	final, err := tea.NewProgram(newWizardModel(answers), tea.WithContext(ctx)).Run()
	if err != nil {
		return cfg, fmt.Errorf("setup form: %w", err)
	}
	if wm, ok := final.(*wizardModel); !ok || wm.cancelled {
		return cfg, ErrCancelled
	}

	cfg = answers.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	var (
		cases    int
		probeErr error
	)
	spinnerStyle := lipgloss.NewStyle().MarginLeft(1).Foreground(wizardPrimary)
	err = spinner.New().
		Title("Contacting " + cfg.BackendURL + "…").
		Style(spinnerStyle).
		Action(func() {
			cases, probeErr = Probe(ctx, cfg)
		}).
		Run()
	if err != nil {
		return cfg, ErrCancelled
	}
	if probeErr != nil {
		fmt.Println(lipgloss.NewStyle().Foreground(wizardRed).Render("  ! backend not reachable: " + probeErr.Error()))
	} else {
		fmt.Println(lipgloss.NewStyle().Foreground(wizardPrimary).Render(fmt.Sprintf("  ✓ backend answered with %d cases", cases)))
	}

	if err := config.Save(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Probe lists cases with a short timeout and returns how many there are.
func Probe(ctx context.Context, cfg config.Config) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cases, err := api.New(cfg.BackendURL).ListAllCases(ctx)
	if err != nil {
		return 0, err
	}
	return len(cases), nil
}

// applyGradient blends the foreground across text, or uses a solid colour
// when the terminal lacks true colour.
func applyGradient(text string, from, to color.Color) string {
	rs := []rune(text)
	if len(rs) == 0 {
		return ""
	}
	c1 := toColorful(from)
	if termenv.ColorProfile() != termenv.TrueColor {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c1.Hex())).Bold(true).Render(text)
	}
	c2 := toColorful(to)
	var out strings.Builder
	for i, r := range rs {
		t := 0.0
		if len(rs) > 1 {
			t = float64(i) / float64(len(rs)-1)
		}
		c := c1.BlendLab(c2, t)
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true).Render(string(r)))
	}
	return out.String()
}

func toColorful(c color.Color) colorful.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return cc
}

func createHuhTheme() *huh.Theme {
	primary := lipgloss.AdaptiveColor{Light: "#8A5A00", Dark: "#E8B44F"}
	fg := lipgloss.AdaptiveColor{Light: "#1F1F24", Dark: "#DDDDDD"}
	fgMuted := lipgloss.Color("#7F7F7F")
	fgSubtle := lipgloss.Color("#888888")
	errCol := lipgloss.Color("#BF5D47")
	success := lipgloss.Color("#87BF47")

	theme := huh.ThemeBase16()
	base := lipgloss.NewStyle().Foreground(fg)

	theme.Focused.Base = base.MarginLeft(1)
	theme.Focused.Title = base.Foreground(primary).Bold(true)
	theme.Focused.Description = base.Foreground(fgMuted)
	theme.Focused.ErrorIndicator = base.Foreground(errCol)
	theme.Focused.ErrorMessage = base.Foreground(errCol)

	theme.Focused.SelectSelector = base.Foreground(primary).Bold(true)
	theme.Focused.SelectedOption = base.Foreground(primary).Bold(true)
	theme.Focused.SelectedPrefix = base.Foreground(success).Bold(true).SetString("✓ ")
	theme.Focused.UnselectedPrefix = base.Foreground(fgMuted).SetString("> ")
	theme.Focused.Option = base

	theme.Focused.FocusedButton = base.Background(primary).Foreground(lipgloss.Color("#101012")).Bold(true).Padding(0, 2)
	theme.Focused.BlurredButton = base.Foreground(fgMuted).Padding(0, 2)

	theme.Focused.TextInput.Cursor = base.Foreground(primary)
	theme.Focused.TextInput.Placeholder = base.Foreground(fgSubtle)
	theme.Focused.TextInput.Prompt = base.Foreground(primary)

	theme.Blurred.Base = base.MarginLeft(1)
	theme.Blurred.Title = base.Foreground(fgMuted)
	theme.Blurred.Description = base.Foreground(fgSubtle)
	theme.Blurred.TextInput.Placeholder = base.Foreground(fgSubtle)
	theme.Blurred.TextInput.Prompt = base.Foreground(fgMuted)

	theme.Form = base
	return theme
}
