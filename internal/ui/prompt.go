package ui

import (
	"github.com/atomicstack/termslots/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// openPrompt settles the menu action that asked for input and shows form in
// its place. The form belongs to the active session and is parked with it.
func (m *Model) openPrompt(form *menu.Form) tea.Cmd {
	m.finishPending()
	m.forceClearInfo()
	m.errMsg = ""
	if form != nil {
		m.startForm(form)
	}
	return nil
}

func (m *Model) handleRenamePromptMsg(msg tea.Msg) tea.Cmd {
	if prompt, ok := msg.(menu.RenamePrompt); ok {
		return m.openPrompt(menu.NewRenameForm(prompt))
	}
	return nil
}

func (m *Model) handleCommandPromptMsg(msg tea.Msg) tea.Cmd {
	if prompt, ok := msg.(menu.CommandPromptMsg); ok {
		return m.openPrompt(menu.NewCommandForm(prompt))
	}
	return nil
}
