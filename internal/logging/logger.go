// Package logging builds the zap logger used across bazaaradmin.
// The TUI owns the terminal, so logs default to a file sink when one
// is configured and stay off stderr while the dashboard runs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bazaaradmin/internal/config"
)

// New builds a logger from the logging config.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.JSON {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Quiet returns a logger suitable for the interactive dashboard: the
// configured file sink when set, a no-op logger otherwise.
func Quiet(cfg config.LoggingConfig) *zap.Logger {
	if cfg.File == "" {
		return zap.NewNop()
	}
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
