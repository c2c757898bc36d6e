package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/copylist/internal/prefs"
	"github.com/five82/copylist/internal/viewsync"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewLogs
)

// Syncer is the part of viewsync.Synchronizer the UI drives.
type Syncer interface {
	Refresh(ctx context.Context) error
	DeleteRow(ctx context.Context, id viewsync.RowID) error
	ClearAll(ctx context.Context) error
	OnFocusRegained(ctx context.Context)
	Subscribed() bool
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Sync      Syncer
	Bridge    *Bridge
	Logger    *zap.Logger
	APIBind   string
	LogPath   string
	Prefs     prefs.Prefs
	PrefsPath string
	Tick      time.Duration
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	sync      Syncer
	bridge    *Bridge
	logger    *zap.Logger
	apiBind   string
	logPath   string
	prefs     prefs.Prefs
	prefsPath string
	tick      time.Duration

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focused     bool

	// Data state
	rows         []viewsync.Row
	loaded       bool
	live         bool
	lastRendered time.Time

	// List state
	selected int
	offset   int

	// Status line
	status     string
	statusKind statusKind

	// Overlays
	showHelp        bool
	confirmingClear bool

	// Log state
	logViewport viewport.Model
	logLines    []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = 2 * time.Second
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}

	return Model{
		ctx:         ctx,
		sync:        opts.Sync,
		bridge:      bridge,
		logger:      logger,
		apiBind:     opts.APIBind,
		logPath:     opts.LogPath,
		prefs:       opts.Prefs,
		prefsPath:   opts.PrefsPath,
		tick:        tick,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewList,
		focused:     true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	bridge := m.bridge
	return tea.Batch(
		tickCmd(m.tick),
		func() tea.Msg {
			rows := bridge.Rows()
			if len(rows) == 0 {
				return nil
			}
			return rowsMsg(rows)
		},
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.ensureVisible()
		m.updateLogViewport()
		return m, nil

	// Focus is tracked here because Update runs in event order while Cmds
	// do not; only the regain refresh runs as a Cmd.
	case tea.FocusMsg:
		if m.focused {
			return m, nil
		}
		m.focused = true
		return m, focusRegainedCmd(m.ctx, m.sync)

	case tea.BlurMsg:
		m.focused = false
		return m, nil

	case tickMsg:
		if m.sync != nil {
			m.live = m.sync.Subscribed()
		}
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case rowsMsg:
		m.applyRows(msg)
		return m, nil

	case errMsg:
		m.setStatus(msg.err.Error(), statusError)
		return m, nil

	case statusMsg:
		m.setStatus(string(msg), statusInfo)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirmingClear {
		return m.renderConfirmClear()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays swallow keys first, then
// global bindings, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.confirmingClear {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
				m.logger.Warn("save prefs failed", zap.Error(err))
			}
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, loadLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.ViewList), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

// Messages

type tickMsg time.Time

// rowsMsg carries one complete render pass.
type rowsMsg []viewsync.Row

type errMsg struct{ err error }

type statusMsg string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and attaches the bridge to it. start,
// when non-nil, runs in the background once the program can receive rows.
func Run(opts Options, start func()) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(m.ctx),
	)
	m.bridge.Attach(p.Send)
	if start != nil {
		go start()
	}
	_, err := p.Run()
	return err
}
