package bridge

import (
	"bytes"
	"io"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

type fakeHandle struct {
	pid  int
	outR *io.PipeReader
	outW *io.PipeWriter

	mu         sync.Mutex
	written    bytes.Buffer
	sizes      []Size
	signals    []syscall.Signal
	ignoreTerm bool
	closed     bool

	exit     chan struct{}
	exitOnce sync.Once
}

func newFakeHandle(pid int) *fakeHandle {
	r, w := io.Pipe()
	return &fakeHandle{pid: pid, outR: r, outW: w, exit: make(chan struct{})}
}

func (h *fakeHandle) Read(p []byte) (int, error) { return h.outR.Read(p) }

func (h *fakeHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.written.Write(p)
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return h.outR.Close()
}

func (h *fakeHandle) Resize(size Size) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sizes = append(h.sizes, size)
	return nil
}

func (h *fakeHandle) Wait() error {
	<-h.exit
	return nil
}

func (h *fakeHandle) Pid() int { return h.pid }

func (h *fakeHandle) Signal(sig syscall.Signal) error {
	h.mu.Lock()
	h.signals = append(h.signals, sig)
	ignore := h.ignoreTerm
	h.mu.Unlock()
	if sig == unix.SIGKILL || (sig == unix.SIGTERM && !ignore) {
		h.finish()
	}
	return nil
}

// finish simulates the child exiting on its own.
func (h *fakeHandle) finish() {
	h.exitOnce.Do(func() {
		_ = h.outW.Close()
		close(h.exit)
	})
}

func (h *fakeHandle) emit(s string) {
	_, _ = h.outW.Write([]byte(s))
}

func (h *fakeHandle) input() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.written.String()
}

func (h *fakeHandle) sentSignals() []syscall.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]syscall.Signal(nil), h.signals...)
}

func (h *fakeHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *fakeHandle) resizes() []Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Size(nil), h.sizes...)
}

type fakeLauncher struct {
	handle *fakeHandle
	err    error
	last   Command
}

func (l *fakeLauncher) Launch(cmd Command) (Handle, error) {
	l.last = cmd
	if l.err != nil {
		return nil, l.err
	}
	return l.handle, nil
}
