package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/termslots/internal/logging"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) finishPending() {
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.finishPending()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(result.Info)
	return nil
}

func (m *Model) handleSwitchMsg(msg tea.Msg) tea.Cmd {
	sw, ok := msg.(menu.SwitchMsg)
	if !ok {
		return nil
	}
	m.finishPending()
	m.popToRoot()
	m.queue.Offer(sw.Request)
	return nil
}

func (m *Model) handleCloseSessionMsg(msg tea.Msg) tea.Cmd {
	closeMsg, ok := msg.(menu.CloseSessionMsg)
	if !ok {
		return nil
	}
	m.finishPending()
	if err := m.table.Close(closeMsg.Index); err != nil {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return nil
	}
	m.refreshSessionLevels()
	m.setInfo(fmt.Sprintf("Closed session %d", closeMsg.Index))
	return nil
}

func (m *Model) handleRenameSessionMsg(msg tea.Msg) tea.Cmd {
	rename, ok := msg.(menu.RenameSessionMsg)
	if !ok {
		return nil
	}
	m.finishPending()
	if err := m.table.Rename(rename.Index, rename.Name); err != nil {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return nil
	}
	m.refreshSessionLevels()
	if m.verbose {
		m.setInfo(fmt.Sprintf("Renamed session %d", rename.Index))
	}
	return nil
}

func (m *Model) handleLoginMsg(msg tea.Msg) tea.Cmd {
	login, ok := msg.(menu.LoginMsg)
	if !ok {
		return nil
	}
	m.finishPending()
	if m.loggedIn() {
		return nil
	}
	_, err := m.table.Create(login.User)
	var takeover *session.TakeoverError
	if err != nil && !errors.As(err, &takeover) {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return nil
	}
	events.UI.Login(login.User)
	if takeover != nil {
		events.UI.Logout(takeover.Previous, takeover.Err)
		m.errMsg = takeover.Error()
	}
	return nil
}

func (m *Model) handleLogoutMsg(msg tea.Msg) tea.Cmd {
	m.finishPending()
	m.logout()
	return nil
}

func (m *Model) handleQuitMsg(msg tea.Msg) tea.Cmd {
	m.finishPending()
	m.logout()
	return tea.Quit
}

// logout ends every session of the current user and returns to the picker.
func (m *Model) logout() {
	owner := m.table.Owner()
	if owner == "" {
		return
	}
	err := m.table.Logout(owner)
	events.UI.Logout(owner, err)
	m.resetLive()
	m.stack = m.loginStack()
	if err != nil {
		m.errMsg = fmt.Sprintf("logout: %v", err)
	}
}

func (m *Model) loadMenuCmd(id, title string, loader menu.Loader) tea.Cmd {
	ctx := m.menuContext()
	return func() tea.Msg {
		items, err := loader(ctx)
		if err != nil {
			logging.Error(err)
		}
		return categoryLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

// categoryLoadedMsg mirrors the async loader response.
type categoryLoadedMsg struct {
	id    string
	title string
	items []menu.Item
	err   error
}

// menuContext snapshots what loaders and actions may read. It is taken on the
// UI loop so commands never touch the table from another goroutine.
func (m *Model) menuContext() menu.Context {
	return menu.Context{
		User:     m.identity.Current(),
		Users:    m.knownUsers,
		Slots:    m.table.Slots(),
		Active:   m.table.Active(),
		Programs: m.programs,
		Shell:    m.shell,
	}
}
