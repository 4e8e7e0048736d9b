package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger. Mode is "development" or "production"; level is
// any zap level name ("debug", "info", ...), defaulting to info when empty.
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if mode == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}

// Must creates a logger or panics.
func Must(mode, level string) *zap.Logger {
	log, err := New(mode, level)
	if err != nil {
		panic(err)
	}
	return log
}
