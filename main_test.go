package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/atomicstack/termslots/internal/app"
	"github.com/atomicstack/termslots/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App:     app.Config{Width: 80, Height: 24, ShowFooter: true},
		Logging: config.Logging{FilePath: "trace.log", Trace: true},
		Flags: map[string]string{
			"width":      "80",
			"leader-key": "ctrl+b",
		},
		Args: []string{"--width", "80", "--leader-key", "ctrl+b"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["leader-key"] != "ctrl+b" {
		t.Fatalf("expected leader key ctrl+b, got %v", flagsValue["leader-key"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if _, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	}
}

// rootArgs points the config lookup and the log file into a temp dir.
func rootArgs(t *testing.T, args ...string) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return append([]string{"--log-file", filepath.Join(dir, "termslots.log")}, args...)
}

func TestRootCommandRunsWithLoadedConfig(t *testing.T) {
	var got app.Config
	run := func(cfg app.Config) error {
		got = cfg
		return nil
	}
	cmd := newRootCmd(run, rootArgs(t, "--width", "90", "--leader-key", "ctrl+b", "--shell", "/bin/zsh"))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Width != 90 {
		t.Fatalf("expected width 90, got %d", got.Width)
	}
	if got.LeaderKey != "ctrl+b" {
		t.Fatalf("expected leader key ctrl+b, got %q", got.LeaderKey)
	}
	if got.Shell != "/bin/zsh" {
		t.Fatalf("expected shell /bin/zsh, got %q", got.Shell)
	}
}

func TestRootCommandReportsConfigErrors(t *testing.T) {
	called := false
	run := func(app.Config) error {
		called = true
		return nil
	}
	err := newRootCmd(run, rootArgs(t, "--leader-timeout", "0s")).Execute()
	if err == nil {
		t.Fatalf("expected a configuration error")
	}
	if called {
		t.Fatalf("run must not be called with invalid settings")
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRootCommandPropagatesRunErrors(t *testing.T) {
	boom := errors.New("boom")
	err := newRootCmd(func(app.Config) error { return boom }, rootArgs(t)).Execute()
	if !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
	if code := exitCode(err); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
