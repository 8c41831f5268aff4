package ui

import (
	"strings"

	"github.com/atomicstack/termslots/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// handleFormKey feeds a key to the open form. A submitted form leaves the
// operation pending until its message comes back.
func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		m.setMode(ModeMenu)
		return nil
	}
	cmd, done, cancel := m.form.Update(msg)
	switch {
	case cancel:
		m.form = nil
		m.setMode(ModeMenu)
		return cmd
	case done:
		actionID := m.form.ActionID()
		pendingLabel := m.form.PendingLabel()
		m.form = nil
		m.setMode(ModeMenu)
		m.loading = true
		m.pendingID = actionID
		m.pendingLabel = pendingLabel
		return cmd
	}
	return cmd
}

func (m *Model) startForm(form *menu.Form) {
	m.form = form
	m.setMode(ModeForm)
}

func (m *Model) viewForm(header string) string {
	lines := make([]string, 0, 8)
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, m.form.Title(), "", m.form.InputView())
	if err := m.form.Error(); err != "" {
		lines = append(lines, "", styles.Error.Render(err))
	}
	lines = append(lines, "", m.form.Help())
	return strings.Join(lines, "\n")
}
