package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atomicstack/termslots/internal/app"
	"github.com/atomicstack/termslots/internal/bridge"
	"github.com/atomicstack/termslots/internal/input"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/session"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Leader   Leader
	Bridge   Bridge
	Users    Users
	Programs []Program
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Leader struct {
	Key     string
	Timeout time.Duration
}

type Bridge struct {
	BufferSize     int
	TerminateGrace time.Duration
	LogoutTimeout  time.Duration
}

type Users struct {
	File string
}

// Program is one entry of the application catalog.
type Program struct {
	Name    string   `mapstructure:"name"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Dir     string   `mapstructure:"dir"`
}

const envPrefix = "TERMSLOTS"

// flag name, viper key, environment suffix
var bindings = [][3]string{
	{"width", "app.width", "WIDTH"},
	{"height", "app.height", "HEIGHT"},
	{"footer", "app.footer", "FOOTER"},
	{"verbose", "app.verbose", "VERBOSE"},
	{"tick", "app.tick", "TICK"},
	{"shell", "app.shell", "SHELL"},
	{"trace", "logging.trace", "TRACE"},
	{"log-file", "logging.file", "LOG_FILE"},
	{"leader-key", "leader.key", "LEADER_KEY"},
	{"leader-timeout", "leader.timeout", "LEADER_TIMEOUT"},
	{"buffer-size", "bridge.buffer_size", "BUFFER_SIZE"},
	{"terminate-grace", "bridge.terminate_grace", "TERMINATE_GRACE"},
	{"logout-timeout", "bridge.logout_timeout", "LOGOUT_TIMEOUT"},
	{"users-file", "users.file", "USERS_FILE"},
}

// RegisterFlags declares the command line flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a TOML config file")
	fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool("footer", false, "enable footer hint row (disabled by default)")
	fs.Bool("verbose", false, "print success messages for actions")
	fs.Duration("tick", 50*time.Millisecond, "render loop tick interval")
	fs.String("shell", "", "shell launched by the Terminal entry (default $SHELL)")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.String("log-file", "", "path to the log file")
	fs.String("leader-key", input.DefaultLeaderKey, "key that opens a session chord")
	fs.Duration("leader-timeout", input.DefaultLeaderTimeout, "how long a session chord waits for its selector")
	fs.Int("buffer-size", bridge.DefaultBufferSize, "bytes of unread output kept per process")
	fs.Duration("terminate-grace", bridge.DefaultTerminateGrace, "delay before a terminated process is killed")
	fs.Duration("logout-timeout", session.DefaultLogoutTimeout, "how long logout waits for processes to exit")
	fs.String("users-file", "", "TOML file listing login users")
}

// Load resolves configuration from flags, TERMSLOTS_* environment variables
// and an optional TOML file, in that order of precedence. fs is parsed with
// args unless the caller already parsed it.
func Load(v *viper.Viper, fs *pflag.FlagSet, args []string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	if fs.Lookup("config") == nil {
		RegisterFlags(fs)
	}
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
	}

	for _, b := range bindings {
		if err := v.BindPFlag(b[1], fs.Lookup(b[0])); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", b[0], err)
		}
		if err := v.BindEnv(b[1], envPrefix+"_"+b[2]); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", b[2], err)
		}
	}
	if err := v.BindEnv("config", envPrefix+"_CONFIG"); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlag("config", fs.Lookup("config")); err != nil {
		return Config{}, err
	}

	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}

	var programs []Program
	if err := v.UnmarshalKey("programs", &programs); err != nil {
		return Config{}, fmt.Errorf("decode programs: %w", err)
	}

	width := v.GetInt("app.width")
	height := v.GetInt("app.height")
	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}

	cfg := Config{
		App: app.Config{
			Width:        width,
			Height:       height,
			ShowFooter:   v.GetBool("app.footer"),
			Verbose:      v.GetBool("app.verbose"),
			TickInterval: v.GetDuration("app.tick"),
			Shell:        v.GetString("app.shell"),
		},
		Logging: Logging{
			FilePath: v.GetString("logging.file"),
			Trace:    v.GetBool("logging.trace"),
		},
		Leader: Leader{
			Key:     v.GetString("leader.key"),
			Timeout: v.GetDuration("leader.timeout"),
		},
		Bridge: Bridge{
			BufferSize:     v.GetInt("bridge.buffer_size"),
			TerminateGrace: v.GetDuration("bridge.terminate_grace"),
			LogoutTimeout:  v.GetDuration("bridge.logout_timeout"),
		},
		Users: Users{
			File: v.GetString("users.file"),
		},
		Programs: programs,
		Flags:    map[string]string{},
		Args:     append([]string(nil), args...),
	}
	fs.VisitAll(func(f *pflag.Flag) {
		cfg.Flags[f.Name] = f.Value.String()
	})
	cfg.App.Shell = shellOrDefault(cfg.App.Shell)
	cfg.App.LeaderKey = cfg.Leader.Key
	cfg.App.LeaderTimeout = cfg.Leader.Timeout
	cfg.App.BufferSize = cfg.Bridge.BufferSize
	cfg.App.TerminateGrace = cfg.Bridge.TerminateGrace
	cfg.App.LogoutTimeout = cfg.Bridge.LogoutTimeout
	cfg.App.UsersFile = cfg.Users.File
	cfg.App.Programs = catalog(programs)
	return cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	v.SetConfigType("toml")
	path := v.GetString("config")
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func defaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "termslots", "config.toml")
}

func shellOrDefault(shell string) string {
	if strings.TrimSpace(shell) != "" {
		return shell
	}
	if env := os.Getenv("SHELL"); env != "" {
		return env
	}
	return "/bin/sh"
}

func catalog(programs []Program) []menu.Program {
	out := make([]menu.Program, 0, len(programs))
	for _, p := range programs {
		out = append(out, menu.Program{
			Name:    strings.TrimSpace(p.Name),
			Command: strings.TrimSpace(p.Command),
			Args:    append([]string(nil), p.Args...),
			Dir:     p.Dir,
		})
	}
	return out
}

// Validate rejects settings the runtime cannot honour.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 || cfg.App.Height < 0 {
		return fmt.Errorf("viewport size must be >= 0 (got %dx%d)", cfg.App.Width, cfg.App.Height)
	}
	if cfg.App.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive (got %s)", cfg.App.TickInterval)
	}
	if cfg.Leader.Timeout <= 0 {
		return fmt.Errorf("leader timeout must be positive (got %s)", cfg.Leader.Timeout)
	}
	if strings.TrimSpace(cfg.Leader.Key) == "" {
		return errors.New("leader key must not be empty")
	}
	if cfg.Bridge.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive (got %d)", cfg.Bridge.BufferSize)
	}
	if cfg.Bridge.TerminateGrace < 0 {
		return fmt.Errorf("terminate grace must be >= 0 (got %s)", cfg.Bridge.TerminateGrace)
	}
	for i, p := range cfg.Programs {
		if strings.TrimSpace(p.Command) == "" {
			return fmt.Errorf("program %d (%q) has no command", i+1, p.Name)
		}
	}
	return nil
}
