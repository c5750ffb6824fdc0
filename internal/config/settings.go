package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// settings is the shape of schedule.yaml. Every field is optional.
//
//	poll_interval: 60s
//	timezone: Europe/Berlin
//	source_tag: tinyclaw-schedule
//	watch_store: true
//	log:
//	  level: info
//	  file: logs/schedule.log
//	  console: true
//	history:
//	  enabled: true
//	  retention: 720h
type settings struct {
	PollInterval string          `yaml:"poll_interval"`
	Timezone     string          `yaml:"timezone"`
	SourceTag    string          `yaml:"source_tag"`
	WatchStore   *bool           `yaml:"watch_store"`
	Log          logSettings     `yaml:"log"`
	History      historySettings `yaml:"history"`
}

type logSettings struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console *bool  `yaml:"console"`
}

type historySettings struct {
	Enabled   *bool  `yaml:"enabled"`
	Retention string `yaml:"retention"`
}

// parseSettings decodes data strictly: unknown keys are errors. An empty
// document is valid.
func parseSettings(data []byte) (*settings, error) {
	var s settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return &s, nil
}

func (s *settings) apply(cfg *Config) error {
	var err error
	if cfg.PollInterval, err = parseDurationOrDefault("poll_interval", s.PollInterval, cfg.PollInterval); err != nil {
		return err
	}
	if cfg.PollInterval < time.Second {
		return fmt.Errorf("poll_interval: must be at least 1s, got %s", cfg.PollInterval)
	}
	if tz := strings.TrimSpace(s.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
		cfg.Location = loc
	}
	if tag := strings.TrimSpace(s.SourceTag); tag != "" {
		cfg.SourceTag = tag
	}
	if s.WatchStore != nil {
		cfg.WatchStore = *s.WatchStore
	}

	switch lvl := strings.ToLower(strings.TrimSpace(s.Log.Level)); lvl {
	case "":
	case "debug", "info", "warn", "warning", "error":
		cfg.LogLevel = lvl
	default:
		return fmt.Errorf("log.level: unknown level %q", s.Log.Level)
	}
	if f := strings.TrimSpace(s.Log.File); f != "" {
		cfg.LogFile = cfg.resolvePath(f)
	}
	if s.Log.Console != nil {
		cfg.LogConsole = *s.Log.Console
	}

	if s.History.Enabled != nil {
		cfg.HistoryEnabled = *s.History.Enabled
	}
	if cfg.HistoryRetention, err = parseDurationOrDefault("history.retention", s.History.Retention, cfg.HistoryRetention); err != nil {
		return err
	}
	return nil
}

// resolvePath makes p absolute relative to the home directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Home, p)
}

func parseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: duration must be > 0", path)
	}
	return d, nil
}
