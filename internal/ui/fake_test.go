package ui

import (
	"bytes"
	"io"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sys/unix"
)

type fakeHandle struct {
	pid  int
	outR *io.PipeReader
	outW *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	sizes   []bridge.Size
	signals []syscall.Signal

	exit     chan struct{}
	exitOnce sync.Once
	exitErr  error
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

func (h *fakeHandle) Close() error { return h.outR.Close() }

func (h *fakeHandle) Resize(size bridge.Size) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sizes = append(h.sizes, size)
	return nil
}

func (h *fakeHandle) Wait() error {
	<-h.exit
	return h.exitErr
}

func (h *fakeHandle) Pid() int { return h.pid }

func (h *fakeHandle) Signal(sig syscall.Signal) error {
	h.mu.Lock()
	h.signals = append(h.signals, sig)
	h.mu.Unlock()
	if sig == unix.SIGTERM || sig == unix.SIGKILL {
		h.finish()
	}
	return nil
}

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

func (h *fakeHandle) terminated() bool {
	select {
	case <-h.exit:
		return true
	default:
		return false
	}
}

func (h *fakeHandle) resizes() []bridge.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bridge.Size(nil), h.sizes...)
}

// fakeLauncher hands out a fresh handle per launch.
type fakeLauncher struct {
	mu       sync.Mutex
	err      error
	commands []bridge.Command
	handles  []*fakeHandle
}

func (l *fakeLauncher) Launch(cmd bridge.Command) (bridge.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, cmd)
	if l.err != nil {
		return nil, l.err
	}
	h := newFakeHandle(1000 + len(l.handles))
	l.handles = append(l.handles, h)
	return h, nil
}

func (l *fakeLauncher) handle(t *testing.T, i int) *fakeHandle {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if i >= len(l.handles) {
		t.Fatalf("expected at least %d launches, got %d", i+1, len(l.handles))
	}
	return l.handles[i]
}

func (l *fakeLauncher) lastCommand() bridge.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.commands) == 0 {
		return bridge.Command{}
	}
	return l.commands[len(l.commands)-1]
}

type fakeDirectory struct {
	users []auth.User
	err   error
}

func (d fakeDirectory) Users() ([]auth.User, error) { return d.users, d.err }

func (d fakeDirectory) Lookup(name string) (auth.User, bool) {
	for _, u := range d.users {
		if u.Name == name {
			return u, true
		}
	}
	return auth.User{}, false
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	h        *Harness
	m        *Model
	launcher *fakeLauncher
	clock    *testClock
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	if len(users) == 0 {
		users = []string{"alice"}
	}
	dir := fakeDirectory{}
	for _, name := range users {
		dir.users = append(dir.users, auth.User{Name: name})
	}
	launcher := &fakeLauncher{}
	clock := newTestClock()
	m := NewModel(Options{
		Width:         80,
		Height:        24,
		Shell:         "/bin/sh",
		Programs:      []menu.Program{{Name: "top", Command: "top"}, {Name: "logs", Command: "tail", Args: []string{"-f", "/var/log/syslog"}}},
		Launcher:      launcher,
		BridgeOptions: []bridge.Option{bridge.WithTerminateGrace(50 * time.Millisecond)},
		Users:         dir,
		LogoutTimeout: 2 * time.Second,
		Now:           clock.Now,
	})
	t.Cleanup(m.Shutdown)
	return &fixture{h: NewHarness(m), m: m, launcher: launcher, clock: clock}
}

// login picks the user under the cursor of the login screen.
func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.h.Send(keyType(tea.KeyEnter))
	if !f.m.loggedIn() {
		t.Fatalf("expected a session after login, err=%q", f.m.errMsg)
	}
}

// tickUntil runs loop iterations until cond holds.
func (f *fixture) tickUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	testutil.WaitFor(t, 2*time.Second, what, func() bool {
		f.h.Tick(f.clock.Now())
		return cond()
	})
}

func (f *fixture) leader(selector tea.KeyMsg) {
	f.h.Send(keyType(tea.KeyCtrlQ))
	f.h.Send(selector)
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
