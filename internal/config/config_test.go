package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
storage:
  dsn: "postgres://localhost:5432/exilewatch"

collector:
  interval: 15m
  league_override: "Settlers"

archive:
  type: localfs
  path: "/tmp/exilewatch/archive"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Collector.Interval)
	assert.Equal(t, "Settlers", cfg.Collector.LeagueOverride)
	assert.Equal(t, "localfs", cfg.Archive.Type)
	// Defaults survive a partial file
	assert.Equal(t, "https://poe.ninja", cfg.Provider.BaseURL)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 30*time.Minute, cfg.Collector.Interval)
	assert.Equal(t, 3, cfg.Provider.Retry.MaxAttempts)
	assert.Equal(t, []string{"Standard", "Hardcore"}, cfg.Collector.PermanentLeagues)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Defaults()
		cfg.Storage.DSN = "postgres://localhost:5432/exilewatch"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) { c.Storage.DSN = "" },
			wantErr: true,
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Collector.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Collector.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.Provider.Retry.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "unknown archive type",
			mutate:  func(c *Config) { c.Archive.Type = "ftp" },
			wantErr: true,
		},
		{
			name:    "localfs archive without path",
			mutate:  func(c *Config) { c.Archive.Type = "localfs" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
