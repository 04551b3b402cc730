// Package config loads runtime options from TRACKPACE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"trackpace/internal/platform"
	"trackpace/internal/storage"
)

// ErrInvalidConfig marks a configuration value that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the runtime options. Command-line flags override it.
type Config struct {
	StateDir      string        `env:"TRACKPACE_STATE_DIR"`
	Store         string        `env:"TRACKPACE_STORE"           envDefault:"yaml"`
	TickInterval  time.Duration `env:"TRACKPACE_TICK_INTERVAL"   envDefault:"100ms"`
	AutoHideAfter time.Duration `env:"TRACKPACE_AUTO_HIDE_AFTER" envDefault:"4s"`
	LapOnPause    bool          `env:"TRACKPACE_LAP_ON_PAUSE"    envDefault:"true"`
	LogLevel      string        `env:"TRACKPACE_LOG_LEVEL"       envDefault:"info"`
}

// Load parses the environment and fills StateDir from the OS config
// directory when it is not set.
func Load(service platform.Service) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.StateDir) == "" {
		dir, err := platform.StateDir(service)
		if err != nil {
			return Config{}, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = dir
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot run with.
func (cfg Config) Validate() error {
	switch cfg.Store {
	case storage.KindYAML, storage.KindSQLite:
	default:
		return fmt.Errorf("store %q must be %s or %s: %w", cfg.Store, storage.KindYAML, storage.KindSQLite, ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.StateDir) == "" {
		return fmt.Errorf("state dir is empty: %w", ErrInvalidConfig)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick interval %s: %w", cfg.TickInterval, ErrInvalidConfig)
	}
	if cfg.AutoHideAfter <= 0 {
		return fmt.Errorf("auto hide after %s: %w", cfg.AutoHideAfter, ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, ErrInvalidConfig)
	}
	return nil
}
