package ui

import (
	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/logging"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/session"
)

// menuScreen is a parked menu: the whole level stack, filters and cursors
// included.
type menuScreen struct {
	stack []*level
}

func (s *menuScreen) ScreenID() string { return "menu" }

func (s *menuScreen) Title() string {
	if n := len(s.stack); n > 1 {
		return s.stack[n-1].Title
	}
	return session.DefaultLabel
}

// processScreen is a parked embedded program together with the menu it was
// launched from, which comes back when the program exits.
type processScreen struct {
	stack []*level
	view  *processView
}

func (s *processScreen) ScreenID() string { return "process" }

func (s *processScreen) Title() string { return s.view.program.Title() }

// Capture moves the live screen, prompt, flash and chord out of the model.
func (m *Model) Capture() session.Context {
	ctx := m.Peek()
	m.resetLive()
	return ctx
}

// Peek describes the live session without detaching it.
func (m *Model) Peek() session.Context {
	ctx := session.Context{
		Transient: session.Transient{
			Flash:      m.infoMsg,
			FlashUntil: m.infoExpire,
			Chord:      m.leader.State(),
		},
	}
	if m.form != nil {
		ctx.Transient.Prompt = m.form
	}
	switch {
	case m.proc != nil:
		ctx.Screen = &processScreen{stack: m.stack, view: m.proc}
		ctx.Process = m.proc.bridge
	case len(m.stack) > 0:
		ctx.Screen = &menuScreen{stack: m.stack}
	}
	return ctx
}

// Restore makes ctx the live session. An empty context starts at the main
// menu.
func (m *Model) Restore(ctx session.Context) {
	m.resetLive()
	switch screen := ctx.Screen.(type) {
	case *processScreen:
		m.stack = screen.stack
		m.proc = screen.view
	case *menuScreen:
		m.stack = screen.stack
	default:
		m.stack = m.rootStack()
	}
	m.infoMsg = ctx.Transient.Flash
	m.infoExpire = ctx.Transient.FlashUntil
	m.leader.Restore(ctx.Transient.Chord)
	if form, ok := ctx.Transient.Prompt.(*menu.Form); ok && form != nil {
		m.form = form
	}
	switch {
	case m.form != nil:
		m.setMode(ModeForm)
	case m.proc != nil:
		m.setMode(ModeProcess)
		m.proc.bridge.Resize(m.processSize())
	}
	m.refreshSessionLevels()
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	m.dirty = true
}

func (m *Model) resetLive() {
	m.stack = nil
	m.proc = nil
	m.form = nil
	m.setMode(ModeMenu)
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	m.errMsg = ""
	m.forceClearInfo()
	m.leader.Reset()
}

func (m *Model) rootStack() []*level {
	root := newLevel("root", "Main Menu", menu.RootItems(), m.registry.Root())
	m.syncViewport(root)
	return []*level{root}
}

// loginStack builds the user picker from the directory.
func (m *Model) loginStack() []*level {
	node, _ := m.registry.Find(loginLevelID)
	m.knownUsers = nil
	if m.users == nil {
		m.errMsg = auth.ErrNoUsers.Error()
	} else if users, err := m.users.Users(); err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
	} else {
		m.knownUsers = users
	}
	var items []menu.Item
	if node != nil && node.Loader != nil {
		loaded, err := node.Loader(m.menuContext())
		if err != nil {
			logging.Error(err)
			m.errMsg = err.Error()
		}
		items = loaded
	}
	lvl := newLevel(loginLevelID, "Login", items, node)
	m.syncViewport(lvl)
	return []*level{lvl}
}

func (m *Model) atLogin() bool {
	return len(m.stack) > 0 && m.stack[0].ID == loginLevelID
}
