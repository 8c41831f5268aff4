package ui

import (
	"time"

	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	at time.Time
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg{at: t} })
}

// handleTickMsg runs one loop iteration and re-arms the tick. The frame is
// only rebuilt when one of the steps changed something.
func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	m.step(m.now())
	return tickCmd(m.tickInterval)
}

func (m *Model) step(now time.Time) {
	changed := false
	if m.leader.Expire(now) {
		changed = true
	}
	if m.applyQueued() {
		changed = true
	}
	if m.reapProcess() {
		changed = true
	}
	if m.drainProcess() {
		changed = true
	}
	if m.infoMsg != "" && !m.infoExpire.IsZero() && now.After(m.infoExpire) {
		m.forceClearInfo()
		changed = true
	}
	if status := m.statusText(now); status != m.lastStatus {
		m.lastStatus = status
		changed = true
	}
	if changed {
		m.dirty = true
	}
}

// applyQueued applies the pending switch request, if any. It reports whether
// there was one.
func (m *Model) applyQueued() bool {
	req, ok := m.queue.Take()
	if !ok {
		return false
	}
	m.applySwitch(req)
	return true
}

// applySwitch resolves a request against the table. Failures are shown on
// the session that stays live.
func (m *Model) applySwitch(req session.SwitchRequest) {
	err := m.table.Apply(req.Target)
	events.Loop.Apply(req.Target.String(), err)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.refreshSessionLevels()
}
