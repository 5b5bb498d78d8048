package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	tea "github.com/charmbracelet/bubbletea/v2"

	"saul/config"
	"saul/internal/api"
	"saul/internal/checklist"
	"saul/internal/inputhistory"
	"saul/internal/layout"
	"saul/internal/preferences"
	"saul/internal/session"
	"saul/internal/theme"
	"saul/internal/tui/cache"
	"saul/internal/tui/components/chat"
	cmpheader "saul/internal/tui/components/header"
	"saul/internal/tui/components/modal"
	"saul/internal/tui/components/notebook"
	"saul/internal/tui/components/picker"
	"saul/internal/tui/components/sources"
	"saul/internal/tui/styles"
)

const (
	reportTTL     = 10 * time.Minute
	statusTimeout = 4 * time.Second
)

type focusArea int

const (
	focusChat focusArea = iota
	focusRight
	focusLeft
)

// DraftStore keeps the unsent question of each case between runs.
type DraftStore interface {
	Draft(ctx context.Context, caseID string) (string, int64, error)
	SaveDraft(ctx context.Context, caseID string, sessionID int64, draft string) error
}

// Options wires the notebook to its collaborators. Only Backend is required.
type Options struct {
	Backend    Backend
	Prefs      preferences.KV
	Drafts     DraftStore
	History    inputhistory.Service
	Theme      *theme.Store
	Config     config.Config
	ConfigPath string
}

type UIComponents struct {
	header    *cmpheader.Header
	sources   *sources.Panel
	chat      *chat.Chat
	notebook  *notebook.Panel
	addSource *modal.AddSource
	picker    *picker.Cases
	keys      keyMap
	help      help.Model
	showHelp  bool
}

type CaseState struct {
	caseID    int64
	caseTitle string
	cases     []api.Case
	sessionID int64
	reports   *cache.TTLCache[string, api.Analytic]
}

type Model struct {
	w, h int

	UIComponents
	CaseState

	ctx    context.Context
	cancel context.CancelFunc

	cfg     config.Config
	backend Backend
	prefs   preferences.KV
	drafts  DraftStore
	history inputhistory.Service
	themes  *theme.Store
	tracker *checklist.Tracker
	layout  *layout.Controller

	focus       focusArea
	keyHandlers map[string]keyHandler
	statusSeq   int

	themeCh  <-chan theme.Event
	configCh <-chan config.Config
}

func layoutConfig(l config.LayoutConfig) layout.Config {
	return layout.Config{
		SidebarWidth:    l.SidebarWidth,
		SidebarMinWidth: l.SidebarMin,
		SidebarMaxWidth: l.SidebarMax,
		ChatMinWidth:    l.ChatMin,
	}.Normalize()
}

// New builds the notebook model. The returned model owns a context that is
// cancelled when the program quits.
func New(parent context.Context, opts Options) *Model {
	ctx, cancel := context.WithCancel(parent)

	prefs := opts.Prefs
	if prefs == nil {
		prefs = preferences.NewMemory()
	}
	history := opts.History
	if history == nil {
		history = inputhistory.NewMemory()
	}
	themes := opts.Theme
	if themes == nil {
		themes = theme.NewStore(ctx, prefs, theme.ParseMode(opts.Config.Theme))
	}
	styles.SetMode(themes.Get())

	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     opts.Config,
		backend: opts.Backend,
		prefs:   prefs,
		drafts:  opts.Drafts,
		history: history,
		themes:  themes,
		tracker: checklist.NewTracker(prefs),
		layout:  newLayout(ctx, prefs, opts.Config.Layout),
	}
	m.header = cmpheader.New()
	m.header.SetUser(opts.Config.UserName)
	m.header.SetMode(themes.Get())
	m.sources = sources.New()
	m.chat = chat.New()
	m.chat.SetUser(opts.Config.UserName)
	m.notebook = notebook.New()
	m.keys = defaultKeys
	m.help = help.New()
	m.help.Styles = styles.CurrentTheme().S().Help
	m.reports = cache.NewTTLCache[string, api.Analytic](reportTTL)

	m.caseID = opts.Config.CaseID
	if m.caseID == 0 {
		m.caseID = int64(preferences.GetInt(ctx, prefs, preferences.KeyLastCase, 0))
	}

	m.themeCh = themes.Subscribe(ctx)
	if opts.ConfigPath != "" {
		ch := make(chan config.Config, 1)
		err := config.Watch(ctx, opts.ConfigPath, func(c config.Config) {
			select {
			case ch <- c:
			default:
			}
		})
		if err != nil {
			slog.Warn("config watch disabled", "error", err)
		} else {
			m.configCh = ch
		}
	}
	return m
}

func newLayout(ctx context.Context, prefs preferences.KV, l config.LayoutConfig) *layout.Controller {
	cfg := layoutConfig(l)
	opts := []layout.Option{
		layout.WithWidths(
			preferences.GetInt(ctx, prefs, preferences.KeyLeftWidth, cfg.SidebarWidth),
			preferences.GetInt(ctx, prefs, preferences.KeyRightWidth, cfg.SidebarWidth),
		),
	}
	if !l.Resizable {
		opts = append(opts, layout.WithFixedWidth())
	}
	return layout.New(cfg, opts...)
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.chat.Focus(),
		m.loadCasesCmd(),
		waitThemeCmd(m.themeCh),
		waitConfigCmd(m.configCh),
	}
	if m.caseID > 0 {
		cmds = append(cmds, m.openCase(m.caseID))
	} else {
		m.picker = picker.New(m.w)
	}
	return tea.Batch(cmds...)
}

func (m *Model) caseKey() string { return strconv.FormatInt(m.caseID, 10) }

func reportKey(caseID int64, typ string) string { return fmt.Sprintf("%d/%s", caseID, typ) }

// openCase switches every pane to caseID and starts loading its data.
func (m *Model) openCase(caseID int64) tea.Cmd {
	if m.caseID > 0 && m.caseID != caseID {
		m.saveDraft()
	}
	m.caseID = caseID
	m.sessionID = 0
	m.caseTitle = m.titleFor(caseID)
	m.header.SetCase(m.caseTitle)
	m.chat.SetMessages(nil)
	m.chat.SetDraft("")
	m.chat.SetActiveSource(sourceNone)
	m.chat.SetHistory(nil)
	m.notebook.Clear()
	m.sources.SetSources(nil)
	m.sources.SetSessions(nil)
	m.sources.SetLoading(true)

	if err := preferences.SetInt(m.ctx, m.prefs, preferences.KeyLastCase, int(caseID)); err != nil {
		slog.Debug("tui: cannot remember last case", "error", err)
	}
	if m.drafts != nil {
		if draft, _, err := m.drafts.Draft(m.ctx, m.caseKey()); err == nil {
			m.chat.SetDraft(draft)
		}
	}
	return tea.Batch(m.loadFilesCmd(caseID), m.loadSessionsCmd(caseID), m.loadHistoryCmd(caseID))
}

func (m *Model) titleFor(caseID int64) string {
	for _, c := range m.cases {
		if c.CaseID == caseID {
			return c.Title()
		}
	}
	return fmt.Sprintf("Case #%d", caseID)
}

func (m *Model) saveDraft() {
	if m.drafts == nil || m.caseID == 0 {
		return
	}
	if err := m.drafts.SaveDraft(m.ctx, m.caseKey(), m.sessionID, m.chat.Draft()); err != nil {
		slog.Debug("tui: draft not saved", "case", m.caseID, "error", err)
	}
}

// setStatus shows text in the header until it is replaced or times out.
func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusSeq++
	m.header.SetStatus(text, isError)
	if isError {
		slog.Warn("tui: " + text)
	}
	return clearStatusAfter(m.statusSeq, statusTimeout)
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.chat.Blur()
	m.sources.Blur()
	m.notebook.Blur()
	switch f {
	case focusLeft:
		m.sources.Focus()
	case focusRight:
		m.notebook.Focus()
	default:
		return m.chat.Focus()
	}
	return nil
}

// Close persists what is left to persist and stops background work.
func (m *Model) Close() {
	m.saveDraft()
	m.cancel()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.layout.SetContainerWidth(m.w)
		m.relayout()
		return m, nil
	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		if cmd, handled := m.handleMouse(msg); handled {
			return m, cmd
		}
	}

	if m.picker != nil {
		if cmd, handled := m.handlePickerMsg(msg); handled {
			return m, cmd
		}
	}
	if m.addSource != nil {
		if cmd, handled := m.handleAddSourceMsg(msg); handled {
			return m, cmd
		}
	}

	if cmd, handled := m.handleKeyEvent(msg); handled {
		return m, cmd
	}

	if cmd, handled := m.handleMessage(msg); handled {
		return m, cmd
	}

	return m, m.updateFocused(msg)
}

// updateFocused forwards input to the focused pane. The chat also gets
// non-key messages so its cursor keeps blinking.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		switch m.focus {
		case focusLeft:
			return m.sources.Update(msg)
		case focusRight:
			return m.notebook.Update(msg)
		}
	}
	return m.chat.Update(msg)
}

func (m *Model) handlePickerMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case picker.CloseMsg:
		m.picker = nil
		return nil, true
	case picker.ChosenMsg:
		m.picker = nil
		for i, c := range m.cases {
			if c.CaseID == msg.Case.CaseID {
				m.cases[i] = msg.Case
			}
		}
		return m.openCase(msg.Case.CaseID), true
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return nil, false
		}
		return m.picker.Update(msg), true
	}
	return nil, false
}

func (m *Model) handleAddSourceMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case modal.CloseMsg:
		m.addSource = nil
		return nil, true
	case modal.AddFileMsg:
		m.addSource = nil
		return tea.Batch(m.setStatus("uploading "+msg.Path+"…", false), m.uploadFileCmd(m.caseID, msg.Path)), true
	case modal.AddNoteMsg:
		m.addSource = nil
		return tea.Batch(m.setStatus("saving note…", false), m.uploadNoteCmd(m.caseID, msg.Title, msg.Text)), true
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return nil, false
		}
		return m.addSource.Update(msg), true
	}
	return nil, false
}

func (m *Model) openAddSource() tea.Cmd {
	if m.caseID == 0 {
		return m.setStatus("open a case first (ctrl+k)", true)
	}
	m.addSource = modal.NewAddSource(m.w)
	return nil
}

func (m *Model) openPicker() tea.Cmd {
	m.picker = picker.New(m.w)
	if m.cases != nil {
		m.picker.SetCases(m.cases, nil)
		return nil
	}
	return m.loadCasesCmd()
}

func (m *Model) startNewChat() {
	m.sessionID = 0
	m.chat.SetMessages(nil)
}

func (m *Model) submitQuestion(text string) tea.Cmd {
	if m.backend == nil {
		return nil
	}
	question := text
	if src := m.chat.ActiveSource(); !src.IsZero() {
		question = fmt.Sprintf("Regarding %q: %s", src.Title(), text)
	}
	if err := m.history.Add(m.ctx, m.caseKey(), text); err != nil {
		slog.Debug("tui: question not added to history", "error", err)
	}
	m.chat.Append(session.NewUserMessage(text))
	m.chat.SetPending(true)
	return m.queryCmd(m.caseID, question)
}
