package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestStartsOnLoginPicker(t *testing.T) {
	f := newFixture(t, "alice", "bob")

	require.True(t, f.m.atLogin())
	require.False(t, f.m.loggedIn())
	lvl := f.m.currentLevel()
	require.Len(t, lvl.Items, 2)
	require.Equal(t, "alice", lvl.Items[0].ID)

	view := f.h.View()
	require.Contains(t, view, "login")
	require.Contains(t, view, "[login]")
}

func TestLoginWithoutDirectoryShowsError(t *testing.T) {
	m := NewModel(Options{Width: 60, Height: 10, Launcher: &fakeLauncher{}})
	require.Equal(t, auth.ErrNoUsers.Error(), m.errMsg)
	require.Empty(t, m.currentLevel().Items)
}

func TestLeaderIgnoredBeforeLogin(t *testing.T) {
	f := newFixture(t)

	f.h.Send(keyType(tea.KeyCtrlQ))
	require.False(t, f.m.leader.Awaiting())
}

func TestLoginCreatesFirstSession(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.h.Send(keyType(tea.KeyDown))
	f.login(t)

	require.Equal(t, 1, f.m.table.Len())
	require.Equal(t, 1, f.m.table.Active())
	require.Equal(t, "bob", f.m.identity.Current())
	require.Equal(t, "root", f.m.currentLevel().ID)
	require.Contains(t, f.h.View(), "[bob | menu]")
}

func TestLeaderSwitchRestoresMenuState(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(keyType(tea.KeyDown))
	f.h.Send(keyType(tea.KeyDown))
	require.Equal(t, 2, f.m.currentLevel().Cursor)
	f.m.setInfo("parked notice")

	f.leader(keyRunes("n"))

	require.Equal(t, 2, f.m.table.Len())
	require.Equal(t, 2, f.m.table.Active())
	require.Equal(t, 0, f.m.currentLevel().Cursor)
	require.Empty(t, f.m.infoMsg)

	f.leader(keyRunes("1"))

	require.Equal(t, 1, f.m.table.Active())
	require.Equal(t, 2, f.m.currentLevel().Cursor)
	require.Equal(t, "parked notice", f.m.infoMsg)
}

func TestDirectKeySwitchesWithoutLeader(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.leader(keyRunes("n"))
	require.Equal(t, 2, f.m.table.Active())

	f.h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	require.Equal(t, 1, f.m.table.Active())

	f.h.Send(keyType(tea.KeyF2))
	require.Equal(t, 2, f.m.table.Active())
	require.False(t, f.m.queue.Pending())
}

func TestKeysAfterSwitchReachNewSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	h := f.launcher.handle(t, 0)

	f.h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	f.m.Update(keyRunes("x"))

	require.Equal(t, 2, f.m.table.Len())
	require.Equal(t, 2, f.m.table.Active())
	require.Equal(t, ModeMenu, f.m.mode)
	require.Equal(t, "x", f.m.currentLevel().Filter)
	for i := 0; i < 3; i++ {
		f.h.Tick(f.clock.Now())
	}
	require.Empty(t, h.input())
}

func TestSwitchKeysBeyondNextSlotReachProcess(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	h := f.launcher.handle(t, 0)

	f.h.Send(keyType(tea.KeyF5))
	f.h.Send(keyRunes("£"))

	f.tickUntil(t, "keys to reach the child", func() bool { return h.input() == "\x1b[15~£" })
	require.Equal(t, 1, f.m.table.Len())
	require.Empty(t, f.m.errMsg)
}

func TestQueueAppliesLatestRequestOnce(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.leader(keyRunes("n"))
	f.leader(keyRunes("n"))
	require.Equal(t, 3, f.m.table.Len())

	f.h.Send(menu.SwitchMsg{Request: session.SwitchRequest{Target: session.Index(1)}})
	f.h.Send(menu.SwitchMsg{Request: session.SwitchRequest{Target: session.Index(2)}})
	require.True(t, f.m.queue.Pending())
	require.Equal(t, 3, f.m.table.Active())
	f.h.Tick(f.clock.Now())
	require.Equal(t, 2, f.m.table.Active())
	require.False(t, f.m.queue.Pending())

	f.h.Tick(f.clock.Now())
	require.Equal(t, 2, f.m.table.Active())
	require.Equal(t, 3, f.m.table.Len())
}

func TestLeaderTimeoutLetsKeysThrough(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.m.Update(keyType(tea.KeyCtrlQ))
	require.True(t, f.m.leader.Awaiting())
	require.Contains(t, f.m.statusText(f.clock.Now()), "[alice | leader]")

	f.clock.Advance(2 * time.Second)
	f.h.Tick(f.clock.Now())
	require.False(t, f.m.leader.Awaiting())

	f.m.Update(keyRunes("2"))
	require.False(t, f.m.queue.Pending())
	require.Equal(t, "2", f.m.currentLevel().Filter)
}

func TestInvalidSwitchKeepsSessionAndShowsError(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.h.Send(menu.SwitchMsg{Request: session.SwitchRequest{Target: session.Index(5)}})
	f.h.Tick(f.clock.Now())

	require.Equal(t, 1, f.m.table.Active())
	require.NotEmpty(t, f.m.errMsg)
}

func TestLeaderSelectorBeyondNextSlotIsTyped(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.h.Send(keyType(tea.KeyCtrlQ))
	f.m.Update(keyRunes("5"))

	require.Equal(t, 1, f.m.table.Len())
	require.False(t, f.m.leader.Awaiting())
	require.Empty(t, f.m.errMsg)
	require.Equal(t, "5", f.m.currentLevel().Filter)
}

func TestLaunchForwardsKeysToProcess(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	require.Equal(t, ModeProcess, f.m.mode)
	cmd := f.launcher.lastCommand()
	require.Equal(t, "top", cmd.Name)
	require.Equal(t, bridge.Size{Cols: 80, Rows: 23}, cmd.Size)
	live := f.m.table.Slots()[0]
	require.Equal(t, "top", live.Label)
	require.Equal(t, "process", live.Screen)
	require.Equal(t, "running", live.Process)
	items := menu.SlotItems(f.m.table.Slots())
	require.True(t, strings.HasSuffix(items[0].Label, "running  active"), items[0].Label)

	h := f.launcher.handle(t, 0)
	f.h.Send(keyRunes("q"))
	f.h.Send(keyType(tea.KeyUp))
	f.tickUntil(t, "keys to reach the child", func() bool { return h.input() == "q\x1b[A" })
}

func TestProcessOutputIsRendered(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	h := f.launcher.handle(t, 0)

	h.emit("\x1b[1mload\x1b[0m average\r\n")
	f.tickUntil(t, "output in the view", func() bool {
		return strings.Contains(f.h.View(), "load average")
	})
	require.Contains(t, f.h.View(), "[alice | process]")
}

func TestProcessExitFallsBackToMenu(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	h := f.launcher.handle(t, 0)

	h.finish()
	f.tickUntil(t, "fallback to the menu", func() bool { return f.m.mode == ModeMenu })

	require.Nil(t, f.m.proc)
	require.Equal(t, "top exited", f.m.infoMsg)
	require.Equal(t, "root", f.m.currentLevel().ID)
	require.Equal(t, session.DefaultLabel, f.m.table.Slots()[0].Label)
}

func TestSpawnFailureStaysInMenu(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.launcher.err = errors.New("no pty available")

	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})

	require.Equal(t, ModeMenu, f.m.mode)
	require.Nil(t, f.m.proc)
	require.Equal(t, "no pty available", f.m.errMsg)
	require.Contains(t, f.h.View(), "Error: no pty available")
}

func TestSwitchingAwaySuspendsProcess(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	b := f.m.proc.bridge

	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())
	require.Equal(t, bridge.Suspended, b.State())
	require.Equal(t, ModeMenu, f.m.mode)
	slots := f.m.table.Slots()
	require.Equal(t, "process", slots[0].Screen)
	require.Equal(t, "suspended", slots[0].Process)

	f.leader(keyType(tea.KeyTab))
	f.h.Tick(f.clock.Now())
	require.Equal(t, 1, f.m.table.Active())
	require.Equal(t, ModeProcess, f.m.mode)
	require.Equal(t, bridge.Running, b.State())
	require.Same(t, b, f.m.proc.bridge)
}

func TestLeaderCloseActiveTerminatesProcess(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	h := f.launcher.handle(t, 0)

	f.leader(keyRunes("x"))
	f.h.Tick(f.clock.Now())

	require.Equal(t, 1, f.m.table.Len())
	require.Equal(t, 1, f.m.table.Active())
	require.Equal(t, ModeMenu, f.m.mode)
	f.tickUntil(t, "child termination", h.terminated)
}

func TestRenameAndCloseMessages(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())

	f.h.Send(menu.RenameSessionMsg{Index: 1, Name: "work"})
	require.Equal(t, "work", f.m.table.Slots()[0].Label)

	f.h.Send(menu.CloseSessionMsg{Index: 2})
	require.Equal(t, 1, f.m.table.Len())
	require.Equal(t, 1, f.m.table.Active())
	require.Equal(t, "Closed session 2", f.m.infoMsg)

	f.h.Send(menu.CloseSessionMsg{Index: 1})
	require.Equal(t, 1, f.m.table.Len())
	require.NotEmpty(t, f.m.errMsg)
}

func TestSwitchMsgReturnsToRootAndQueues(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.SwitchMsg{Request: session.SwitchRequest{Target: session.New}})
	require.True(t, f.m.queue.Pending())
	f.h.Tick(f.clock.Now())
	require.Equal(t, 2, f.m.table.Active())
}

func TestLogoutTerminatesEverySession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})
	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "logs", Command: "tail"}})

	f.h.Send(menu.LogoutMsg{})

	require.Equal(t, 0, f.m.table.Len())
	require.True(t, f.m.atLogin())
	require.Empty(t, f.m.identity.Current())
	require.Equal(t, ModeMenu, f.m.mode)
	require.True(t, f.launcher.handle(t, 0).terminated())
	require.True(t, f.launcher.handle(t, 1).terminated())
}

func TestQuitLogsOutAndExits(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, cmd := f.m.Update(menu.QuitMsg{})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
	require.Equal(t, 0, f.m.table.Len())
}

func TestWindowResizeReachesProcess(t *testing.T) {
	f := newFixture(t)
	f.m.fixedWidth, f.m.fixedHeight = false, false
	f.login(t)
	f.h.Send(menu.LaunchMsg{Program: menu.Program{Name: "top", Command: "top"}})

	f.h.Send(tea.WindowSizeMsg{Width: 100, Height: 30})

	sizes := f.launcher.handle(t, 0).resizes()
	require.Equal(t, []bridge.Size{{Cols: 100, Rows: 29}}, sizes)
}

func TestViewIsCachedUntilSomethingChanges(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.h.Tick(f.clock.Now())

	first := f.h.View()
	f.m.infoMsg = "not yet visible"
	require.Equal(t, first, f.h.View())

	f.h.Tick(f.clock.Now())
	require.Equal(t, first, f.h.View(), "an idle tick keeps the frame")

	f.m.dirty = true
	require.Contains(t, f.h.View(), "not yet visible")
}

func TestStatusTextListsSlots(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())

	text := f.m.statusText(f.clock.Now())
	require.Contains(t, text, "[alice | menu]")
	require.Contains(t, text, "[1][2*]")
	require.True(t, strings.HasPrefix(text, "Sat 2026-03-14 09:30AM"))

	f.m.status.SetBattery("BAT 80%")
	require.True(t, strings.HasSuffix(f.m.statusText(f.clock.Now()), "BAT 80%"))
}

func TestHeaderFollowsMenuDepth(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, "login", f.m.menuHeader())
	f.login(t)
	require.Equal(t, "main menu", f.m.menuHeader())

	f.m.currentLevel().Cursor = f.m.currentLevel().IndexOf("sessions")
	f.h.Send(keyType(tea.KeyEnter))
	require.Equal(t, "sessions", f.m.currentLevel().ID)
	require.Equal(t, "main menu→sessions", f.m.menuHeader())

	f.h.Send(keyType(tea.KeyEsc))
	require.Equal(t, "root", f.m.currentLevel().ID)
	require.Equal(t, f.m.currentLevel().IndexOf("sessions"), f.m.currentLevel().Cursor)
}

func TestRenamePromptOpensFormAndCancels(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.m.Update(menu.RenamePrompt{Index: 1, Initial: "Main Menu"})
	require.Equal(t, ModeForm, f.m.mode)
	require.NotNil(t, f.m.form)
	require.Contains(t, f.m.View(), f.m.form.Title())

	f.m.Update(keyType(tea.KeyEsc))
	require.Equal(t, ModeMenu, f.m.mode)
	require.Nil(t, f.m.form)
}

func TestOpenFormIsParkedWithSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.m.Update(menu.CommandPromptMsg{Shell: "/bin/sh"})
	form := f.m.form
	require.NotNil(t, form)

	f.leader(keyRunes("n"))
	f.h.Tick(f.clock.Now())
	require.Nil(t, f.m.form)
	require.Equal(t, ModeMenu, f.m.mode)

	f.leader(keyRunes("1"))
	f.h.Tick(f.clock.Now())
	require.Same(t, form, f.m.form)
	require.Equal(t, ModeForm, f.m.mode)
}
