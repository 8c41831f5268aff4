package ui

import (
	"fmt"

	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/input"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// statusBarRows is the space kept below an embedded program.
const statusBarRows = 1

// processView is an embedded program on screen.
type processView struct {
	bridge  *bridge.Bridge
	program menu.Program
	screen  *Scrollback
}

func (m *Model) handleLaunchMsg(msg tea.Msg) tea.Cmd {
	launch, ok := msg.(menu.LaunchMsg)
	if !ok {
		return nil
	}
	m.finishPending()
	program := launch.Program
	b, err := bridge.Spawn(m.launcher, bridge.Command{
		Name: program.Command,
		Args: program.Args,
		Dir:  program.Dir,
		Size: m.processSize(),
	}, m.bridgeOpts...)
	if err != nil {
		m.errMsg = err.Error()
		m.forceClearInfo()
		events.Action.Error(err)
		return nil
	}
	current := m.currentLevel()
	if current != nil {
		current.SetFilter("", 0)
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.proc = &processView{bridge: b, program: program, screen: newScrollback(0)}
	m.setMode(ModeProcess)
	m.table.SetLabel(program.Title())
	events.Loop.Launch(program.Command, program.Args)
	return nil
}

// forwardToProcess hands a key to the embedded program.
func (m *Model) forwardToProcess(msg tea.KeyMsg) {
	if m.proc == nil {
		return
	}
	m.proc.bridge.WriteInput(input.Encode(msg, m.proc.screen.AppCursor()))
}

// processSize is the child's share of the terminal: everything above the
// status bar.
func (m *Model) processSize() bridge.Size {
	if m.width <= 0 || m.height <= statusBarRows {
		return bridge.Size{}
	}
	return bridge.Size{Cols: uint16(m.width), Rows: uint16(m.height - statusBarRows)}
}

// reapProcess falls back to the launching menu once the live program has
// terminated. It reports whether anything changed.
func (m *Model) reapProcess() bool {
	if m.proc == nil || m.proc.bridge.State() != bridge.Terminated {
		return false
	}
	title := m.proc.program.Title()
	exitErr := m.proc.bridge.ExitErr()
	m.proc = nil
	m.setMode(ModeMenu)
	if exitErr != nil {
		m.setInfo(fmt.Sprintf("%s exited: %v", title, exitErr))
	} else {
		m.setInfo(fmt.Sprintf("%s exited", title))
	}
	m.table.SetLabel((&menuScreen{stack: m.stack}).Title())
	m.refreshSessionLevels()
	events.Loop.ProcessExited(title)
	return true
}

// drainProcess moves pending child output into the scrollback.
func (m *Model) drainProcess() bool {
	if m.proc == nil {
		return false
	}
	out := m.proc.bridge.DrainOutput()
	if len(out) == 0 {
		return false
	}
	m.proc.screen.Write(out)
	return true
}
