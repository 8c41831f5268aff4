package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutableNotFound matches spawn failures caused by a missing program.
	ErrExecutableNotFound = errors.New("executable not found")
	// ErrOSRejected matches spawn failures raised by the operating system.
	ErrOSRejected = errors.New("spawn rejected by the operating system")
)

// SpawnKind classifies why a process could not start.
type SpawnKind int

const (
	ExecutableNotFound SpawnKind = iota
	OSRejected
)

func (k SpawnKind) String() string {
	switch k {
	case ExecutableNotFound:
		return "executable not found"
	case OSRejected:
		return "rejected by os"
	default:
		return fmt.Sprintf("SpawnKind(%d)", int(k))
	}
}

// SpawnError reports a failed launch.
type SpawnError struct {
	Kind SpawnKind
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Kind == ExecutableNotFound {
		return fmt.Sprintf("spawn %s: executable not found", e.Name)
	}
	return fmt.Sprintf("spawn %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Is lets errors.Is match a SpawnError against the kind sentinels.
func (e *SpawnError) Is(target error) bool {
	switch target {
	case ErrExecutableNotFound:
		return e.Kind == ExecutableNotFound
	case ErrOSRejected:
		return e.Kind == OSRejected
	}
	return false
}
