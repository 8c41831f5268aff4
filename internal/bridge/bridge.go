// Package bridge owns embedded child processes attached through a
// pseudo-terminal. A Bridge never blocks its caller: output is collected by a
// background reader, input is queued to a background writer, and the child
// is reaped by a monitor goroutine as soon as it exits.
package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// State is the attention state of a bridge.
type State int32

const (
	Running State = iota
	Suspended
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const (
	// DefaultTerminateGrace is how long a terminated group gets before SIGKILL.
	DefaultTerminateGrace = time.Second

	inputQueueDepth = 64
	readChunk       = 4096
	// drainAfterExit bounds how long the monitor waits for the reader to see
	// EOF once the child is gone. A backgrounded grandchild can hold the
	// slave side open indefinitely.
	drainAfterExit = 200 * time.Millisecond
)

// Option customises a bridge at spawn time.
type Option func(*Bridge)

// WithBufferSize bounds the undrained output kept for the bridge.
func WithBufferSize(n int) Option {
	return func(b *Bridge) { b.buf = newOutputBuffer(n) }
}

// WithTerminateGrace sets the delay between SIGTERM and SIGKILL.
func WithTerminateGrace(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.grace = d
		}
	}
}

// Bridge is one embedded interactive process.
type Bridge struct {
	id     string
	name   string
	pid    int
	handle Handle
	buf    *outputBuffer
	grace  time.Duration

	input      chan []byte
	suspended  atomic.Bool
	stopping   atomic.Bool
	readerDone chan struct{}
	done       chan struct{}
	exitErr    error

	mu   sync.Mutex
	size Size

	terminateOnce sync.Once
}

// Spawn launches cmd through l and starts the reader, writer and reaper
// goroutines. The returned bridge is Running.
func Spawn(l Launcher, cmd Command, opts ...Option) (*Bridge, error) {
	handle, err := l.Launch(cmd)
	if err != nil {
		events.Bridge.SpawnFailed(cmd.Name, err)
		return nil, err
	}
	b := &Bridge{
		id:         uuid.NewString(),
		name:       cmd.Name,
		pid:        handle.Pid(),
		handle:     handle,
		buf:        newOutputBuffer(DefaultBufferSize),
		grace:      DefaultTerminateGrace,
		input:      make(chan []byte, inputQueueDepth),
		readerDone: make(chan struct{}),
		done:       make(chan struct{}),
		size:       cmd.Size,
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.readLoop()
	go b.writeLoop()
	go b.monitor()
	events.Bridge.Spawn(b.id, b.name, b.pid)
	return b, nil
}

func (b *Bridge) ID() string   { return b.id }
func (b *Bridge) Name() string { return b.name }
func (b *Bridge) Pid() int     { return b.pid }

// State reports Terminated only once the child has been reaped and the
// pseudo-terminal released.
func (b *Bridge) State() State {
	select {
	case <-b.done:
		return Terminated
	default:
	}
	if b.suspended.Load() {
		return Suspended
	}
	return Running
}

// Done is closed when the bridge reaches Terminated.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// ExitErr returns the child's wait error once terminated.
func (b *Bridge) ExitErr() error {
	select {
	case <-b.done:
		return b.exitErr
	default:
		return nil
	}
}

// WriteInput queues p for the child. Input is dropped silently unless the
// bridge is Running, and also when the child has stopped reading long enough
// for the queue to fill.
func (b *Bridge) WriteInput(p []byte) {
	if len(p) == 0 || b.stopping.Load() || b.State() != Running {
		return
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	select {
	case b.input <- chunk:
	default:
	}
}

// DrainOutput returns output accumulated since the last drain. It returns nil
// while suspended; the output stays buffered for the next resume.
func (b *Bridge) DrainOutput() []byte {
	if b.suspended.Load() && b.State() != Terminated {
		return nil
	}
	return b.buf.Drain()
}

// Pending reports the number of undrained output bytes.
func (b *Bridge) Pending() int {
	return b.buf.Len()
}

// Resize forwards a geometry change. Unchanged sizes are not re-sent.
func (b *Bridge) Resize(size Size) {
	if b.State() == Terminated || size.Cols == 0 || size.Rows == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size == size {
		return
	}
	if err := b.handle.Resize(size); err != nil {
		return
	}
	b.size = size
	events.Bridge.Resize(b.id, size.Cols, size.Rows)
}

// Size returns the last geometry delivered to the child.
func (b *Bridge) Size() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Suspend stops input and output delivery. The process keeps running.
func (b *Bridge) Suspend() {
	if b.State() == Terminated {
		return
	}
	if !b.suspended.Swap(true) {
		events.Bridge.Suspend(b.id)
	}
}

// Resume re-enables input and output delivery.
func (b *Bridge) Resume() {
	if b.State() == Terminated {
		return
	}
	if b.suspended.Swap(false) {
		events.Bridge.Resume(b.id)
	}
}

// Terminate signals the child's process group and returns immediately. The
// group is killed outright if it is still alive after the grace period.
// Calling Terminate more than once has no further effect.
func (b *Bridge) Terminate() {
	b.terminateOnce.Do(func() {
		b.stopping.Store(true)
		select {
		case <-b.done:
			return
		default:
		}
		events.Bridge.Terminate(b.id, b.pid)
		_ = b.handle.Signal(unix.SIGHUP)
		_ = b.handle.Signal(unix.SIGTERM)
		go func() {
			timer := time.NewTimer(b.grace)
			defer timer.Stop()
			select {
			case <-b.done:
			case <-timer.C:
				events.Bridge.Escalate(b.id, b.pid)
				_ = b.handle.Signal(unix.SIGKILL)
			}
		}()
	})
}

// Wait blocks until the bridge is Terminated or ctx ends.
func (b *Bridge) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) readLoop() {
	defer close(b.readerDone)
	chunk := make([]byte, readChunk)
	for {
		n, err := b.handle.Read(chunk)
		if n > 0 {
			_, _ = b.buf.Write(chunk[:n])
		}
		if err != nil {
			return
		}
	}
}

func (b *Bridge) writeLoop() {
	for {
		select {
		case <-b.done:
			return
		case p := <-b.input:
			if _, err := b.handle.Write(p); err != nil {
				return
			}
		}
	}
}

func (b *Bridge) monitor() {
	err := b.handle.Wait()
	timer := time.NewTimer(drainAfterExit)
	select {
	case <-b.readerDone:
	case <-timer.C:
	}
	timer.Stop()
	_ = b.handle.Close()
	b.exitErr = err
	close(b.done)
	events.Bridge.Exit(b.id, b.pid, err)
}
