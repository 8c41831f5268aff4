package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness feeds messages to a Model the way the bubbletea runtime would,
// without a terminal. The command a message returns is run inline and its
// result fed back until the chain ends. Batches and the tick timer are not
// followed; tests call Tick to advance the loop.
type Harness struct {
	model *Model
}

func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send delivers msg and every message its command chain yields.
func (h *Harness) Send(msg tea.Msg) {
	for msg != nil && h.model != nil {
		cmd := h.update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

// Tick runs one loop iteration at now and drops the re-armed timer.
func (h *Harness) Tick(now time.Time) {
	if h.model != nil {
		h.update(tickMsg{at: now})
	}
}

func (h *Harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	if m, ok := next.(*Model); ok {
		h.model = m
	}
	return cmd
}

func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

func (h *Harness) Model() *Model {
	return h.model
}
