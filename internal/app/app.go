package app

import (
	"errors"
	"time"

	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/backend"
	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/indicator"
	"github.com/atomicstack/termslots/internal/input"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const statusPollInterval = time.Second

// Config describes user-provided application options.
type Config struct {
	Width          int
	Height         int
	ShowFooter     bool
	Verbose        bool
	TickInterval   time.Duration
	Shell          string
	LeaderKey      string
	LeaderTimeout  time.Duration
	BufferSize     int
	TerminateGrace time.Duration
	LogoutTimeout  time.Duration
	UsersFile      string
	Programs       []menu.Program
}

// Run bootstraps and executes the Bubble Tea program. Every session still
// open when the program ends is logged out before Run returns.
func Run(cfg Config) error {
	watcher := backend.NewWatcher(indicator.NewBattery(""), statusPollInterval)
	model := ui.NewModel(modelOptions(cfg, watcher))
	defer model.Shutdown()
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func modelOptions(cfg Config, watcher *backend.Watcher) ui.Options {
	return ui.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
		Verbose:      cfg.Verbose,
		TickInterval: cfg.TickInterval,
		Shell:        cfg.Shell,
		Programs:     cfg.Programs,
		Launcher:     bridge.PTYLauncher{},
		BridgeOptions: []bridge.Option{
			bridge.WithBufferSize(cfg.BufferSize),
			bridge.WithTerminateGrace(cfg.TerminateGrace),
		},
		Leader:        input.NewLeader(cfg.LeaderKey, cfg.LeaderTimeout),
		Users:         auth.NewFileDirectory(cfg.UsersFile),
		Identity:      &auth.Identity{},
		Watcher:       watcher,
		LogoutTimeout: cfg.LogoutTimeout,
	}
}
