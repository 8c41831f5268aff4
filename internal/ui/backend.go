package ui

import (
	"github.com/atomicstack/termslots/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// indicatorMsg carries one reading from the indicator watcher.
type indicatorMsg struct {
	event backend.Event
}

// indicatorsClosedMsg reports that the watcher stopped publishing.
type indicatorsClosedMsg struct{}

// listenIndicators blocks for the next watcher event. The handler re-arms it
// after every reading, so exactly one listener is in flight.
func listenIndicators(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		if evt, ok := <-w.Events(); ok {
			return indicatorMsg{event: evt}
		}
		return indicatorsClosedMsg{}
	}
}

func (m *Model) handleIndicatorMsg(msg tea.Msg) tea.Cmd {
	reading, ok := msg.(indicatorMsg)
	if !ok {
		return nil
	}
	if m.dispatcher.Handle(reading.event).Changed() {
		m.dirty = true
	}
	if m.backend == nil {
		return nil
	}
	return listenIndicators(m.backend)
}

func (m *Model) handleIndicatorsClosedMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}
