package testutil

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// RequireShell aborts the calling test when /bin/sh is not available.
func RequireShell(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("skipping: sh binary not available")
	}
	return path
}

// WriteScript stores an executable shell script in a temporary directory and
// returns its path.
func WriteScript(t *testing.T, name, body string) string {
	t.Helper()
	RequireShell(t)
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script %s: %v", name, err)
	}
	return path
}

// WaitFor polls cond until it reports true or the timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %s waiting for %s", timeout, what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// ProcessAlive reports whether pid names a running process. Zombies waiting
// for a reaper that is not ours (init inside containers) count as dead.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid)); err == nil {
		// The state follows the parenthesised command name.
		if idx := strings.LastIndexByte(string(data), ')'); idx >= 0 && idx+2 < len(data) {
			return data[idx+2] != 'Z' && data[idx+2] != 'X'
		}
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
