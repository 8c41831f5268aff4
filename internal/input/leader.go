// Package input turns key events into session-switch intents and encodes
// keys for embedded processes.
package input

import (
	"time"

	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultLeaderKey opens a session chord.
	DefaultLeaderKey = "ctrl+q"
	// DefaultLeaderTimeout is how long the chord waits for its selector.
	DefaultLeaderTimeout = 1200 * time.Millisecond
)

// Outcome tells the loop what happened to a key fed to the Leader.
type Outcome int

const (
	// Passthrough means the key is not a session key; route it normally.
	Passthrough Outcome = iota
	// Consumed means the key was swallowed without producing an intent.
	Consumed
	// Emitted means the key completed a request.
	Emitted
)

func (o Outcome) String() string {
	switch o {
	case Passthrough:
		return "passthrough"
	case Consumed:
		return "consumed"
	case Emitted:
		return "emitted"
	default:
		return "unknown"
	}
}

// Leader is a two-state machine: idle, or awaiting a selector since
// openedAt. The timeout is checked by comparing timestamps.
type Leader struct {
	key      string
	timeout  time.Duration
	awaiting bool
	openedAt time.Time
}

// NewLeader builds a machine for the given leader key. Empty or non-positive
// arguments fall back to the defaults.
func NewLeader(key string, timeout time.Duration) *Leader {
	if key == "" {
		key = DefaultLeaderKey
	}
	if timeout <= 0 {
		timeout = DefaultLeaderTimeout
	}
	return &Leader{key: key, timeout: timeout}
}

// Key returns the configured leader key.
func (l *Leader) Key() string { return l.key }

// Timeout returns the selector window.
func (l *Leader) Timeout() time.Duration { return l.timeout }

// Awaiting reports whether the leader has been seen and a selector is due.
func (l *Leader) Awaiting() bool { return l.awaiting }

// State exports the chord for parking.
func (l *Leader) State() session.ChordState {
	return session.ChordState{AwaitingSelector: l.awaiting, OpenedAt: l.openedAt}
}

// Restore reinstates a parked chord.
func (l *Leader) Restore(state session.ChordState) {
	l.awaiting = state.AwaitingSelector
	l.openedAt = state.OpenedAt
}

// Reset returns to idle.
func (l *Leader) Reset() {
	l.awaiting = false
	l.openedAt = time.Time{}
}

// Expire reverts an overdue chord to idle. It reports whether it did.
func (l *Leader) Expire(now time.Time) bool {
	if !l.awaiting {
		return false
	}
	elapsed := now.Sub(l.openedAt)
	if elapsed <= l.timeout {
		return false
	}
	l.Reset()
	events.Leader.Timeout(elapsed.Milliseconds())
	return true
}

// Feed interprets one key while slots sessions are open. A selector or
// direct key naming a slot out of reach passes through like any other key.
func (l *Leader) Feed(msg tea.KeyMsg, now time.Time, slots int) (session.SwitchRequest, Outcome) {
	key := msg.String()
	l.Expire(now)
	if l.awaiting {
		l.Reset()
		target, ok := selectorTarget(msg)
		if !ok {
			events.Leader.Abort(key)
			return session.SwitchRequest{}, Consumed
		}
		if target.Kind == session.TargetIndex && !InReach(target.Index, slots) {
			events.Leader.Unreachable(key, target.Index, slots)
			return session.SwitchRequest{}, Passthrough
		}
		events.Leader.Selector(key, target.String())
		return session.SwitchRequest{Target: target}, Emitted
	}
	if key == l.key {
		l.awaiting = true
		l.openedAt = now
		events.Leader.Open()
		return session.SwitchRequest{}, Consumed
	}
	if target, ok := DirectTarget(msg, slots); ok {
		events.Leader.Direct(key, target.String())
		return session.SwitchRequest{Target: target}, Emitted
	}
	return session.SwitchRequest{}, Passthrough
}
