package session

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityFull is returned when the owner already has MaxSlots sessions.
	ErrCapacityFull = errors.New("session limit reached")
	// ErrNotFound is returned for indices that do not name a slot.
	ErrNotFound = errors.New("session not found")
	// ErrOnlyOneSession is returned when closing the last remaining slot.
	ErrOnlyOneSession = errors.New("cannot close the only session")
	// ErrNoOwner is returned when a session is requested without a user.
	ErrNoOwner = errors.New("no user is logged in")
)

// CapacityError reports a create attempt beyond MaxSlots.
type CapacityError struct {
	Owner string
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s already has %d sessions", ErrCapacityFull, e.Owner, e.Limit)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityFull }

// NotFoundError reports a switch or close target that does not exist.
type NotFoundError struct {
	Index int
	Count int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no session %d (have %d)", ErrNotFound, e.Index, e.Count)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// BlockedError reports a close that would leave the owner with no session.
type BlockedError struct {
	Owner string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s; log out instead", ErrOnlyOneSession)
}

func (e *BlockedError) Is(target error) bool { return target == ErrOnlyOneSession }

// TakeoverError reports that a new owner's session was created but the
// previous owner's bridges did not all exit in time.
type TakeoverError struct {
	Previous string
	Err      error
}

func (e *TakeoverError) Error() string {
	return fmt.Sprintf("logout %s: %v", e.Previous, e.Err)
}

func (e *TakeoverError) Unwrap() error { return e.Err }
