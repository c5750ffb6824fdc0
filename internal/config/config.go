// Package config resolves the tinyclaw home directory, the paths derived
// from it and the optional schedule.yaml settings file. Resolution happens
// once at process start; the resulting Config is passed to every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Environment variable names.
const (
	// HomeEnv overrides the tinyclaw home directory.
	HomeEnv = "TINYCLAW_HOME"

	// ProjectRootEnv names the project whose .tinyclaw directory is used
	// when it contains a settings.json.
	ProjectRootEnv = "TINYCLAW_PROJECT_ROOT"

	// DebugEnv enables debug logging.
	DebugEnv = "CLAWSCHED_DEBUG"
)

// File and directory names inside the home directory.
const (
	HomeDirName      = ".tinyclaw"
	SettingsFileName = "settings.json"
	SettingsYAMLName = "schedule.yaml"
	StoreFileName    = "schedules.json"
	PidFileName      = "schedule.pid"
	HistoryFileName  = "schedule-history.db"
)

// Defaults applied when schedule.yaml is missing or silent.
const (
	DefaultPollInterval     = 60 * time.Second
	DefaultSourceTag        = "tinyclaw-schedule"
	DefaultHistoryRetention = 30 * 24 * time.Hour
	DefaultLogLevel         = "info"
)

// ErrNoHome is returned when no home directory can be determined.
var ErrNoHome = errors.New("cannot determine tinyclaw home directory")

// Config is the resolved process configuration.
type Config struct {
	// Home is the tinyclaw home directory.
	Home string

	StorePath   string
	QueueDir    string
	LogFile     string
	PidFile     string
	HistoryPath string

	// PollInterval caps how long the loop sleeps between ticks.
	PollInterval time.Duration
	// Location is the time zone cron expressions are matched in.
	Location *time.Location
	// SourceTag prefixes the senderId of emitted events.
	SourceTag string
	// WatchStore wakes the loop when the schedule document changes.
	WatchStore bool

	LogLevel   string
	LogConsole bool

	HistoryEnabled   bool
	HistoryRetention time.Duration

	// Debug is set from CLAWSCHED_DEBUG and forces the debug log level.
	Debug bool

	// SettingsFile is the schedule.yaml that was loaded, empty if none.
	SettingsFile string
}

// Options are the inputs to Resolve. Zero fields fall back to the process
// environment.
type Options struct {
	// Home is the --home flag value; it wins over everything else.
	Home string

	Fs          afero.Fs
	Getenv      func(string) string
	Getwd       func() (string, error)
	UserHomeDir func() (string, error)
}

func (o *Options) setDefaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.Getwd == nil {
		o.Getwd = os.Getwd
	}
	if o.UserHomeDir == nil {
		o.UserHomeDir = os.UserHomeDir
	}
}

// Resolve determines the home directory, derives the file paths and
// applies <home>/schedule.yaml when it exists.
func Resolve(opts Options) (*Config, error) {
	opts.setDefaults()
	home, err := resolveHome(&opts)
	if err != nil {
		return nil, err
	}
	cfg := Default(home)
	cfg.Debug = parseBool(opts.Getenv(DebugEnv))

	settingsPath := filepath.Join(home, SettingsYAMLName)
	data, err := afero.ReadFile(opts.Fs, settingsPath)
	switch {
	case err == nil:
		s, err := parseSettings(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", settingsPath, err)
		}
		if err := s.apply(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", settingsPath, err)
		}
		cfg.SettingsFile = settingsPath
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// Default returns the configuration for home with every setting at its
// default value.
func Default(home string) *Config {
	return &Config{
		Home:             home,
		StorePath:        filepath.Join(home, StoreFileName),
		QueueDir:         filepath.Join(home, "queue", "incoming"),
		LogFile:          filepath.Join(home, "logs", "schedule.log"),
		PidFile:          filepath.Join(home, PidFileName),
		HistoryPath:      filepath.Join(home, HistoryFileName),
		PollInterval:     DefaultPollInterval,
		Location:         time.Local,
		SourceTag:        DefaultSourceTag,
		WatchStore:       true,
		LogLevel:         DefaultLogLevel,
		LogConsole:       true,
		HistoryEnabled:   true,
		HistoryRetention: DefaultHistoryRetention,
	}
}

func resolveHome(opts *Options) (string, error) {
	if h := strings.TrimSpace(opts.Home); h != "" {
		return filepath.Abs(h)
	}
	if h := strings.TrimSpace(opts.Getenv(HomeEnv)); h != "" {
		return filepath.Abs(h)
	}
	root := strings.TrimSpace(opts.Getenv(ProjectRootEnv))
	if root == "" {
		if wd, err := opts.Getwd(); err == nil {
			root = wd
		}
	}
	if root != "" {
		local := filepath.Join(root, HomeDirName)
		if fi, err := opts.Fs.Stat(filepath.Join(local, SettingsFileName)); err == nil && !fi.IsDir() {
			return filepath.Abs(local)
		}
	}
	userHome, err := opts.UserHomeDir()
	if err != nil || userHome == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return filepath.Join(userHome, HomeDirName), nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
