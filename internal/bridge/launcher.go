package bridge

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Size is a terminal geometry in character cells.
type Size struct {
	Cols uint16
	Rows uint16
}

// Command describes a program to run under a pseudo-terminal.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env replaces the inherited environment when non-nil.
	Env  []string
	Size Size
}

// Handle is the OS side of one spawned child: the pseudo-terminal master plus
// the process it is attached to.
type Handle interface {
	io.ReadWriteCloser
	Resize(Size) error
	// Wait blocks until the child exits and reaps it.
	Wait() error
	Pid() int
	// Signal delivers sig to the child's whole process group.
	Signal(sig syscall.Signal) error
}

// Launcher starts a process attached to a pseudo-terminal.
type Launcher interface {
	Launch(cmd Command) (Handle, error)
}

// PTYLauncher starts children with creack/pty. Each child runs in its own
// session so its pid doubles as the process-group id.
type PTYLauncher struct{}

// Launch resolves and starts cmd.
func (PTYLauncher) Launch(cmd Command) (Handle, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, &SpawnError{Kind: ExecutableNotFound, Name: cmd.Name, Err: exec.ErrNotFound}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, &SpawnError{Kind: ExecutableNotFound, Name: name, Err: err}
	}
	c := exec.Command(path, cmd.Args...)
	c.Dir = cmd.Dir
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	c.Env = withTerm(env)
	master, err := pty.StartWithSize(c, winsize(cmd.Size))
	if err != nil {
		return nil, &SpawnError{Kind: OSRejected, Name: name, Err: err}
	}
	return &ptyHandle{cmd: c, master: master}, nil
}

func withTerm(env []string) []string {
	for _, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			return env
		}
	}
	out := make([]string, 0, len(env)+1)
	out = append(out, env...)
	return append(out, "TERM=xterm-256color")
}

func winsize(size Size) *pty.Winsize {
	if size.Cols == 0 {
		size.Cols = 80
	}
	if size.Rows == 0 {
		size.Rows = 24
	}
	return &pty.Winsize{Cols: size.Cols, Rows: size.Rows}
}

type ptyHandle struct {
	cmd    *exec.Cmd
	master *os.File
}

func (h *ptyHandle) Read(p []byte) (int, error)  { return h.master.Read(p) }
func (h *ptyHandle) Write(p []byte) (int, error) { return h.master.Write(p) }
func (h *ptyHandle) Close() error                { return h.master.Close() }
func (h *ptyHandle) Wait() error                 { return h.cmd.Wait() }

func (h *ptyHandle) Resize(size Size) error {
	return pty.Setsize(h.master, winsize(size))
}

func (h *ptyHandle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *ptyHandle) Signal(sig syscall.Signal) error {
	pid := h.Pid()
	if pid <= 0 {
		return nil
	}
	err := unix.Kill(-pid, sig)
	if errors.Is(err, unix.ESRCH) {
		// Group already gone; the leader may still be unreaped.
		err = unix.Kill(pid, sig)
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
	}
	return err
}
