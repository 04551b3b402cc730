package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDirService struct {
	dir string
}

func (service fixedDirService) GetConfigDir() (string, error)          { return service.dir, nil }
func (fixedDirService) EnableAutostart(string, string, ...string) error { return nil }
func (fixedDirService) DisableAutostart(string) error                   { return nil }
func (fixedDirService) AutostartEnabled(string) (bool, error)           { return false, nil }

func TestLoadDefaults(t *testing.T) {
	base := t.TempDir()
	cfg, err := Load(fixedDirService{dir: base})
	require.NoError(t, err)

	assert.Equal(t, Config{
		StateDir:      filepath.Join(base, "trackpace"),
		Store:         "yaml",
		TickInterval:  100 * time.Millisecond,
		AutoHideAfter: 4 * time.Second,
		LapOnPause:    true,
		LogLevel:      "info",
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRACKPACE_STATE_DIR", "/tmp/trackpace-state")
	t.Setenv("TRACKPACE_STORE", "sqlite")
	t.Setenv("TRACKPACE_TICK_INTERVAL", "250ms")
	t.Setenv("TRACKPACE_AUTO_HIDE_AFTER", "10s")
	t.Setenv("TRACKPACE_LAP_ON_PAUSE", "false")
	t.Setenv("TRACKPACE_LOG_LEVEL", "debug")

	cfg, err := Load(fixedDirService{dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/trackpace-state", cfg.StateDir)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10*time.Second, cfg.AutoHideAfter)
	assert.False(t, cfg.LapOnPause)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("TRACKPACE_TICK_INTERVAL", "fast")
	_, err := Load(fixedDirService{dir: t.TempDir()})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		StateDir:      "/tmp/x",
		Store:         "yaml",
		TickInterval:  100 * time.Millisecond,
		AutoHideAfter: 4 * time.Second,
		LogLevel:      "info",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(cfg *Config) { cfg.Store = "bolt" }},
		{"empty state dir", func(cfg *Config) { cfg.StateDir = " " }},
		{"zero tick", func(cfg *Config) { cfg.TickInterval = 0 }},
		{"negative auto hide", func(cfg *Config) { cfg.AutoHideAfter = -time.Second }},
		{"bad log level", func(cfg *Config) { cfg.LogLevel = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
