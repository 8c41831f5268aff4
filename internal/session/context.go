package session

import (
	"context"
	"time"

	"github.com/atomicstack/termslots/internal/bridge"
)

// Screen is the tagged union of screen variants. Each variant is a concrete
// type owned by the UI; the table stores and replays it without looking
// inside.
type Screen interface {
	// ScreenID names the variant, e.g. "menu" or "process".
	ScreenID() string
	// Title is a short human label used for the slot's display name.
	Title() string
}

// Process is the part of a bridge the table needs to park, restore and
// tear down a session.
type Process interface {
	Suspend()
	Resume()
	Terminate()
	State() bridge.State
	Wait(ctx context.Context) error
}

// ChordState is a leader chord caught half way.
type ChordState struct {
	AwaitingSelector bool
	OpenedAt         time.Time
}

// Transient holds UI state that survives a park but not a logout.
type Transient struct {
	Flash      string
	FlashUntil time.Time
	// Prompt is the in-progress input form, if any. Opaque to the table.
	Prompt interface{}
	Chord  ChordState
}

// Context is everything a parked session needs to come back exactly as it
// was.
type Context struct {
	Screen    Screen
	Transient Transient
	Process   Process
}

// ScreenID returns the screen variant name, or "" for an empty context.
func (c *Context) ScreenID() string {
	if c == nil || c.Screen == nil {
		return ""
	}
	return c.Screen.ScreenID()
}

// HasProcess reports whether a bridge is attached.
func (c *Context) HasProcess() bool {
	return c != nil && c.Process != nil
}
