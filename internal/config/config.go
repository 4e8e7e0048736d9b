package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Collector CollectorConfig `mapstructure:"collector"`
	Backfill  BackfillConfig  `mapstructure:"backfill"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type StorageConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

type CollectorConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	Concurrency      int           `mapstructure:"concurrency"`
	LeagueOverride   string        `mapstructure:"league_override"`
	PermanentLeagues []string      `mapstructure:"permanent_leagues"`
}

type BackfillConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Leagues []string `mapstructure:"leagues"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "", "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"` // "development" or "production"
	Level string `mapstructure:"level"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Provider: ProviderConfig{
			BaseURL: "https://poe.ninja",
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   time.Second,
				MaxDelay:    30 * time.Second,
			},
		},
		Collector: CollectorConfig{
			Interval:         30 * time.Minute,
			Concurrency:      2,
			PermanentLeagues: []string{"Standard", "Hardcore"},
		},
		Archive: ArchiveConfig{
			Type: "",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9187",
			Path:    "/metrics",
		},
		Log: LogConfig{
			Mode:  "production",
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Storage.DSN == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("storage dsn is required"))
	}

	if c.Collector.Interval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("collector interval must be positive, got %s", c.Collector.Interval))
	}
	if c.Collector.Concurrency < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("collector concurrency must be at least 1, got %d", c.Collector.Concurrency))
	}

	if c.Provider.BaseURL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("provider base_url is required"))
	}
	if c.Provider.Retry.MaxAttempts < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("retry max_attempts must be at least 1, got %d", c.Provider.Retry.MaxAttempts))
	}

	switch c.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
	}
	if c.Archive.Type == "localfs" && c.Archive.Path == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("archive path required for localfs"))
	}
	if c.Archive.Type == "s3" && c.Archive.S3.Bucket == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("s3 bucket required for s3 archive"))
	}

	return nil
}
