// Package session multiplexes up to MaxSlots interactive sessions for the
// logged-in user. The Table is owned by the UI loop and is not safe for
// concurrent use; only bridges do work on other goroutines.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/atomicstack/termslots/internal/logging"
	"github.com/atomicstack/termslots/internal/logging/events"
	"golang.org/x/sync/errgroup"
)

// MaxSlots is the per-user session ceiling.
const MaxSlots = 9

// DefaultLabel names a slot that has not shown anything else yet.
const DefaultLabel = "Main Menu"

// DefaultLogoutTimeout bounds how long Logout waits for bridges to be reaped.
const DefaultLogoutTimeout = 5 * time.Second

// Host is the live side of the active session. Capture moves the live state
// out (leaving the host empty); Restore makes a context live. A zero Context
// means a fresh session. Peek describes the live state without moving it.
type Host interface {
	Capture() Context
	Restore(ctx Context)
	Peek() Context
}

// Identity is told which user owns the session about to become live.
type Identity interface {
	SetCurrentUser(user string)
}

// SlotInfo is a read-only view of one slot.
type SlotInfo struct {
	Index   int
	Owner   string
	Label   string
	Active  bool
	Screen  string
	Process string
}

type slot struct {
	owner string
	label string
	name  string
	ctx   *Context
}

func (s *slot) displayLabel() string {
	if s.name != "" {
		return s.name
	}
	if s.label != "" {
		return s.label
	}
	return DefaultLabel
}

// Option customises a Table.
type Option func(*Table)

// WithLogoutTimeout overrides DefaultLogoutTimeout.
func WithLogoutTimeout(d time.Duration) Option {
	return func(t *Table) {
		if d > 0 {
			t.logoutTimeout = d
		}
	}
}

// Table is the ordered set of session slots. Indices are always 1..Len().
type Table struct {
	host          Host
	identity      Identity
	slots         []*slot
	active        int
	logoutTimeout time.Duration
}

// NewTable returns an empty table bound to host and identity.
func NewTable(host Host, identity Identity, opts ...Option) *Table {
	t := &Table{
		host:          host,
		identity:      identity,
		logoutTimeout: DefaultLogoutTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of slots.
func (t *Table) Len() int { return len(t.slots) }

// Active returns the active index, or 0 when the table is empty.
func (t *Table) Active() int { return t.active }

// Owner returns the user owning the active slot.
func (t *Table) Owner() string {
	if t.active == 0 {
		return ""
	}
	return t.slots[t.active-1].owner
}

// Slots lists the slots in index order. The active slot reports what the
// host is showing right now.
func (t *Table) Slots() []SlotInfo {
	out := make([]SlotInfo, 0, len(t.slots))
	for i, s := range t.slots {
		info := SlotInfo{
			Index:  i + 1,
			Owner:  s.owner,
			Label:  s.displayLabel(),
			Active: i+1 == t.active,
		}
		ctx := s.ctx
		if info.Active {
			live := t.host.Peek()
			ctx = &live
		}
		if ctx != nil {
			info.Screen = ctx.ScreenID()
			if ctx.Process != nil {
				info.Process = ctx.Process.State().String()
			}
		}
		out = append(out, info)
	}
	return out
}

// SetLabel records the title of what the active slot is showing.
func (t *Table) SetLabel(label string) {
	if t.active == 0 {
		return
	}
	label = strings.TrimSpace(label)
	s := t.slots[t.active-1]
	if s.label != label {
		s.label = label
		events.Session.Label(t.active, label)
	}
}

// Rename gives a slot a user-chosen name. An empty name reverts to the
// automatic label.
func (t *Table) Rename(index int, name string) error {
	if index < 1 || index > len(t.slots) {
		return &NotFoundError{Index: index, Count: len(t.slots)}
	}
	t.slots[index-1].name = strings.TrimSpace(name)
	events.Session.Label(index, name)
	return nil
}

// Create appends a slot for owner and makes it active, parking the current
// one first. Slots owned by a different user are logged out beforehand; if
// that logout times out the slot is still created and a *TakeoverError is
// returned alongside it.
func (t *Table) Create(owner string) (SlotInfo, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		events.Session.Rejected("create", ErrNoOwner)
		return SlotInfo{}, ErrNoOwner
	}
	var takeover error
	for _, other := range t.owners() {
		if other == owner {
			continue
		}
		if err := t.Logout(other); err != nil && takeover == nil {
			takeover = &TakeoverError{Previous: other, Err: err}
		}
	}
	if len(t.slots) >= MaxSlots {
		err := &CapacityError{Owner: owner, Limit: MaxSlots}
		events.Session.Rejected("create", err)
		return SlotInfo{}, err
	}
	if t.active != 0 {
		t.park()
	}
	t.slots = append(t.slots, &slot{owner: owner, label: DefaultLabel})
	index := len(t.slots)
	events.Session.Create(owner, index)
	t.restore(index)
	return t.Slots()[index-1], takeover
}

// SwitchTo parks the active slot and restores index.
func (t *Table) SwitchTo(index int) error {
	if index == t.active && index != 0 {
		return nil
	}
	if index < 1 || index > len(t.slots) {
		err := &NotFoundError{Index: index, Count: len(t.slots)}
		events.Session.Rejected("switch", err)
		return err
	}
	from := t.active
	t.park()
	t.restore(index)
	events.Session.Switch(from, index)
	return nil
}

// Close removes the slot at index, terminating its bridge. The remaining
// slots are renumbered to stay contiguous. Closing the active slot activates
// the one before it, or the new first slot.
func (t *Table) Close(index int) error {
	if index < 1 || index > len(t.slots) {
		err := &NotFoundError{Index: index, Count: len(t.slots)}
		events.Session.Rejected("close", err)
		return err
	}
	target := t.slots[index-1]
	if t.countFor(target.owner) <= 1 {
		err := &BlockedError{Owner: target.owner}
		events.Session.Rejected("close", err)
		return err
	}
	wasActive := index == t.active
	if wasActive {
		live := t.host.Capture()
		terminate(live.Process)
	} else if target.ctx != nil {
		terminate(target.ctx.Process)
	}
	target.ctx = nil
	t.slots = append(t.slots[:index-1], t.slots[index:]...)

	switch {
	case wasActive:
		next := index - 1
		if next < 1 {
			next = 1
		}
		t.active = 0
		t.restore(next)
	case index < t.active:
		t.active--
	}
	events.Session.Close(index, t.active, len(t.slots))
	return nil
}

// Logout destroys every slot owned by owner. Every attached bridge, parked
// or live, is terminated and waited for; the error reports bridges that did
// not exit within the logout timeout.
func (t *Table) Logout(owner string) error {
	var procs []Process
	activeOwned := t.active != 0 && t.slots[t.active-1].owner == owner
	if activeOwned {
		if live := t.host.Capture(); live.Process != nil {
			procs = append(procs, live.Process)
		}
	}
	kept := t.slots[:0]
	removed := 0
	activeSlot := (*slot)(nil)
	if t.active != 0 {
		activeSlot = t.slots[t.active-1]
	}
	for _, s := range t.slots {
		if s.owner != owner {
			kept = append(kept, s)
			continue
		}
		removed++
		if s.ctx != nil && s.ctx.Process != nil {
			procs = append(procs, s.ctx.Process)
		}
		s.ctx = nil
	}
	t.slots = kept

	err := t.terminateAll(procs)

	t.active = 0
	switch {
	case len(t.slots) == 0:
		t.identity.SetCurrentUser("")
	case activeOwned:
		t.restore(1)
	default:
		for i, s := range t.slots {
			if s == activeSlot {
				t.active = i + 1
			}
		}
	}
	events.Session.Logout(owner, removed)
	return err
}

// Apply resolves a switch request against the table.
func (t *Table) Apply(target Target) error {
	switch target.Kind {
	case TargetIndex:
		if target.Index == len(t.slots)+1 && len(t.slots) > 0 && len(t.slots) < MaxSlots {
			_, err := t.Create(t.Owner())
			return err
		}
		return t.SwitchTo(target.Index)
	case TargetNext:
		if len(t.slots) <= 1 {
			return nil
		}
		return t.SwitchTo(t.active%len(t.slots) + 1)
	case TargetNew:
		_, err := t.Create(t.Owner())
		return err
	case TargetCloseActive:
		return t.Close(t.active)
	}
	return nil
}

func (t *Table) park() {
	if t.active == 0 {
		return
	}
	s := t.slots[t.active-1]
	ctx := t.host.Capture()
	// Suspend before the context counts as parked so no further output
	// reaches the UI from this slot.
	if ctx.Process != nil {
		ctx.Process.Suspend()
	}
	if ctx.Screen != nil {
		s.label = ctx.Screen.Title()
	}
	s.ctx = &ctx
	events.Session.Park(t.active, ctx.ScreenID(), ctx.Process != nil)
}

func (t *Table) restore(index int) {
	s := t.slots[index-1]
	t.identity.SetCurrentUser(s.owner)
	ctx := Context{}
	fresh := s.ctx == nil
	if !fresh {
		ctx = *s.ctx
		s.ctx = nil
	}
	if ctx.Process != nil {
		ctx.Process.Resume()
	}
	t.active = index
	t.host.Restore(ctx)
	events.Session.Restore(index, s.owner, fresh)
}

func (t *Table) countFor(owner string) int {
	n := 0
	for _, s := range t.slots {
		if s.owner == owner {
			n++
		}
	}
	return n
}

func (t *Table) owners() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range t.slots {
		if _, ok := seen[s.owner]; ok {
			continue
		}
		seen[s.owner] = struct{}{}
		out = append(out, s.owner)
	}
	return out
}

func (t *Table) terminateAll(procs []Process) error {
	if len(procs) == 0 {
		return nil
	}
	for _, p := range procs {
		p.Terminate()
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.logoutTimeout)
	defer cancel()
	var g errgroup.Group
	for _, p := range procs {
		p := p
		g.Go(func() error { return p.Wait(ctx) })
	}
	err := g.Wait()
	if err != nil {
		logging.Error(err)
	}
	return err
}

func terminate(p Process) {
	if p != nil {
		p.Terminate()
	}
}
