package session

import "fmt"

// TargetKind enumerates what a switch request asks the table to do.
type TargetKind int

const (
	TargetIndex TargetKind = iota
	TargetNext
	TargetNew
	TargetCloseActive
)

// Target names the slot a SwitchRequest acts on.
type Target struct {
	Kind  TargetKind
	Index int
}

// Index targets the slot at position i (1-based).
func Index(i int) Target { return Target{Kind: TargetIndex, Index: i} }

var (
	Next        = Target{Kind: TargetNext}
	New         = Target{Kind: TargetNew}
	CloseActive = Target{Kind: TargetCloseActive}
)

func (t Target) String() string {
	switch t.Kind {
	case TargetIndex:
		return fmt.Sprintf("index:%d", t.Index)
	case TargetNext:
		return "next"
	case TargetNew:
		return "new"
	case TargetCloseActive:
		return "close"
	default:
		return fmt.Sprintf("target(%d)", int(t.Kind))
	}
}

// SwitchRequest is an intent produced by the input layer and applied by the
// loop at most once.
type SwitchRequest struct {
	Target Target
}
