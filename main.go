package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/termslots/internal/app"
	"github.com/atomicstack/termslots/internal/config"
	"github.com/atomicstack/termslots/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd(app.Run, os.Args[1:]).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "termslots: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload describes the environment the sessions will inherit:
// the resolved settings, the shell and TERM handed to children, and the
// controlling terminal.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := map[string]interface{}{
		"trace":   cfg.Logging.Trace,
		"logFile": cfg.Logging.FilePath,
	}
	for name, value := range cfg.Flags {
		flags[name] = value
	}
	programs := make([]string, 0, len(cfg.App.Programs))
	for _, p := range cfg.App.Programs {
		programs = append(programs, p.Name)
	}
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"programs": programs,
		"shell":    cfg.App.Shell,
		"term":     os.Getenv("TERM"),
		"tty":      collectTTYDetails(),
	}
	addPathOrError(payload, "executable", os.Executable)
	addPathOrError(payload, "cwd", os.Getwd)
	return payload
}

func addPathOrError(payload map[string]interface{}, key string, fn func() (string, error)) {
	if value, err := fn(); err != nil {
		payload[key+"Error"] = err.Error()
	} else {
		payload[key] = value
	}
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes the standard descriptors. The first one that is a
// terminal with a readable size is reported as the detected geometry, which
// is what new sessions will be sized to before the first resize event.
func collectTTYDetails() ttyDetails {
	var info ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		probe := probeTTY(f)
		if info.Detected == nil && probe.IsTerminal && probe.Error == "" {
			info.Detected = &ttyDetected{Source: probe.Name, Width: probe.Width, Height: probe.Height}
		}
		info.Probes = append(info.Probes, probe)
	}
	return info
}

func probeTTY(f *os.File) ttyProbeResult {
	probe := ttyProbeResult{Name: stdName(f)}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return probe
	}
	probe.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Width, probe.Height = width, height
	return probe
}

func stdName(f *os.File) string {
	switch f {
	case os.Stdin:
		return "stdin"
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	}
	return f.Name()
}
