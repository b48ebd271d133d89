package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Daemon contains runtime knobs for the background process.
type Daemon struct {
	// Display selects the X server; empty means $DISPLAY.
	Display string `toml:"display"`
	// LockPath is the flock file preventing a second daemon per user.
	LockPath string `toml:"lock_path"`
	// UdevFallback additionally triggers reconciliation on kernel drm
	// uevents, for drivers with unreliable RandR change notifications.
	UdevFallback bool `toml:"udev_fallback"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the compiled configuration: daemon/logging knobs plus the layout
// table keyed by canonical monitor set. It is built once at startup and never
// mutated afterwards.
type Config struct {
	Daemon  Daemon
	Logging Logging

	// Monitors maps config-file monitor names to their identities. Kept for
	// diagnostics; matching goes through Layouts.
	Monitors map[string]Monitor

	// Layouts is the compiled lookup table.
	Layouts Table
}

// fileMonitorLayout is the on-disk shape of a [layouts.<name>] table.
type fileMonitorLayout struct {
	Monitors []string                `toml:"monitors"`
	Outputs  map[string]OutputConfig `toml:"outputs"`
}

// file is the on-disk shape of the whole configuration.
type file struct {
	Monitors map[string]Monitor           `toml:"monitors"`
	Layouts  map[string]fileMonitorLayout `toml:"layouts"`
	Daemon   Daemon                       `toml:"daemon"`
	Logging  Logging                      `toml:"logging"`
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Daemon: Daemon{
			LockPath: "~/.local/state/randrd/randrd.lock",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Monitors: map[string]Monitor{},
		Layouts:  Table{},
	}
}

// DefaultConfigPath returns the absolute path of the default config location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/randrd/config.toml")
}

// ExpandPath resolves a leading tilde against the current user's home.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

// Load reads, parses, compiles, and validates the configuration file at
// path; an empty path means the default location. The resolved path is
// returned for diagnostics.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = def
	} else {
		expanded, err := ExpandPath(resolved)
		if err != nil {
			return nil, "", err
		}
		resolved = expanded
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("open config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, resolved, fmt.Errorf("parse config %s:%d:%d:\n%s", resolved, row, col, derr.String())
		}
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return cfg, resolved, nil
}

// Parse decodes TOML data and compiles it into a validated Config.
func Parse(data []byte) (*Config, error) {
	var raw file
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := Default()
	if raw.Daemon.Display != "" {
		cfg.Daemon.Display = raw.Daemon.Display
	}
	if raw.Daemon.LockPath != "" {
		cfg.Daemon.LockPath = raw.Daemon.LockPath
	}
	cfg.Daemon.UdevFallback = raw.Daemon.UdevFallback
	if raw.Logging.Level != "" {
		cfg.Logging.Level = raw.Logging.Level
	}
	if raw.Logging.Format != "" {
		cfg.Logging.Format = raw.Logging.Format
	}

	lockPath, err := ExpandPath(cfg.Daemon.LockPath)
	if err != nil {
		return nil, err
	}
	cfg.Daemon.LockPath = lockPath

	if raw.Monitors != nil {
		cfg.Monitors = raw.Monitors
	}
	table, err := compile(raw.Monitors, raw.Layouts)
	if err != nil {
		return nil, err
	}
	cfg.Layouts = table

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
