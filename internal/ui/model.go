package ui

import (
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/backend"
	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/data/dispatcher"
	"github.com/atomicstack/termslots/internal/input"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/session"
	"github.com/atomicstack/termslots/internal/state"
	"github.com/atomicstack/termslots/internal/theme"
	"github.com/atomicstack/termslots/internal/ui/command"
	uistate "github.com/atomicstack/termslots/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeMenu Mode = iota
	ModeForm
	ModeProcess
)

func (m Mode) String() string {
	switch m {
	case ModeForm:
		return "form"
	case ModeProcess:
		return "process"
	default:
		return "menu"
	}
}

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "main menu"
	loginLevelID        = "login"

	// DefaultTickInterval paces the loop when Options leaves it unset.
	DefaultTickInterval = 50 * time.Millisecond
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Options configures a Model.
type Options struct {
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	TickInterval  time.Duration
	Shell         string
	Programs      []menu.Program
	Launcher      bridge.Launcher
	BridgeOptions []bridge.Option
	Leader        *input.Leader
	Users         auth.Directory
	Identity      *auth.Identity
	Watcher       *backend.Watcher
	LogoutTimeout time.Duration
	// Now replaces the wall clock, for tests.
	Now func() time.Time
}

// Model implements the Bubble Tea model for the session multiplexer. It is
// also the session.Host of its slot table: the live screen, prompt and flash
// belong to the active slot and are moved in and out on every switch.
type Model struct {
	// Live state of the active session. Capture and Restore move these
	// in and out of a session.Context.
	stack      []*level
	proc       *processView
	form       *menu.Form
	mode       Mode
	errMsg     string
	infoMsg    string
	infoExpire time.Time

	loading      bool
	pendingID    string
	pendingLabel string

	width, height           int
	fixedWidth, fixedHeight bool
	showFooter, verbose     bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	table    *session.Table
	leader   *input.Leader
	queue    input.Queue
	identity *auth.Identity

	users      auth.Directory
	knownUsers []auth.User
	programs   []menu.Program
	shell      string
	launcher   bridge.Launcher
	bridgeOpts []bridge.Option

	registry *menu.Registry
	bus      *command.Bus
	handlers map[reflect.Type]msgHandler

	backend    *backend.Watcher
	status     state.StatusStore
	dispatcher *dispatcher.Dispatcher

	tickInterval time.Duration
	now          func() time.Time
	// frame is the last rendered view, reused until dirty is set.
	dirty      bool
	frame      string
	lastStatus string
}

// NewModel builds the UI. With nobody logged in it opens on the user picker.
func NewModel(opts Options) *Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Launcher == nil {
		opts.Launcher = bridge.PTYLauncher{}
	}
	if opts.Leader == nil {
		opts.Leader = input.NewLeader("", 0)
	}
	if opts.Identity == nil {
		opts.Identity = &auth.Identity{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	status := state.NewStatusStore()
	m := &Model{
		registry:     menu.BuildRegistry(),
		bus:          command.New(),
		backend:      opts.Watcher,
		showFooter:   opts.ShowFooter,
		verbose:      opts.Verbose,
		mode:         ModeMenu,
		leader:       opts.Leader,
		launcher:     opts.Launcher,
		bridgeOpts:   opts.BridgeOptions,
		identity:     opts.Identity,
		users:        opts.Users,
		programs:     opts.Programs,
		shell:        opts.Shell,
		status:       status,
		dispatcher:   dispatcher.New(status),
		tickInterval: opts.TickInterval,
		now:          opts.Now,
		dirty:        true,
	}
	m.table = session.NewTable(m, m.identity, session.WithLogoutTimeout(opts.LogoutTimeout))
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.stack = m.loginStack()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickInterval)}
	if m.backend != nil {
		cmds = append(cmds, listenIndicators(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg, indicatorMsg:
	default:
		m.dirty = true
	}
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	if m.mode == ModeForm && m.form != nil {
		if cmd, _, _ := m.form.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):            m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):     m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):               m.handleTickMsg,
		reflect.TypeOf(categoryLoadedMsg{}):     m.handleCategoryLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}):     m.handleActionResultMsg,
		reflect.TypeOf(menu.LaunchMsg{}):        m.handleLaunchMsg,
		reflect.TypeOf(menu.SwitchMsg{}):        m.handleSwitchMsg,
		reflect.TypeOf(menu.CloseSessionMsg{}):  m.handleCloseSessionMsg,
		reflect.TypeOf(menu.RenameSessionMsg{}): m.handleRenameSessionMsg,
		reflect.TypeOf(menu.RenamePrompt{}):     m.handleRenamePromptMsg,
		reflect.TypeOf(menu.CommandPromptMsg{}): m.handleCommandPromptMsg,
		reflect.TypeOf(menu.LoginMsg{}):         m.handleLoginMsg,
		reflect.TypeOf(menu.LogoutMsg{}):        m.handleLogoutMsg,
		reflect.TypeOf(menu.QuitMsg{}):          m.handleQuitMsg,
		reflect.TypeOf(indicatorMsg{}):          m.handleIndicatorMsg,
		reflect.TypeOf(indicatorsClosedMsg{}):   m.handleIndicatorsClosedMsg,
	}
}

// handlerFor finds the handler for msg's type. Pointer messages fall back to
// the handler of their element type.
func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil {
		return nil
	}
	for t := reflect.TypeOf(msg); ; t = t.Elem() {
		if h, ok := m.handlers[t]; ok {
			return h
		}
		if t.Kind() != reflect.Ptr {
			return nil
		}
	}
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	events.UI.Mode(mode.String())
}

func (m *Model) loggedIn() bool {
	return m.table.Len() > 0
}

// Shutdown ends every remaining session and stops the indicator watcher. It
// is meant for after the program has exited.
func (m *Model) Shutdown() {
	if owner := m.table.Owner(); owner != "" {
		err := m.table.Logout(owner)
		events.UI.Logout(owner, err)
	}
	if m.backend != nil {
		m.backend.Stop()
		m.backend = nil
	}
}

// Table exposes the session table.
func (m *Model) Table() *session.Table { return m.table }
