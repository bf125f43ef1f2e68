// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger shared by the CLI and the engine.
// Console output goes to stderr in a human-readable form; an optional log
// file receives the same entries as JSON lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/docconv/pkg/types"
)

// New creates a logger from cfg writing the console stream to stderr. The
// returned close function flushes and releases the log file, if any.
func New(cfg types.LogConfig) (*zap.Logger, func() error, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg types.LogConfig, console io.Writer) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.ConsoleSeparator = " | "
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	closeFn := func() error { return nil }
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(f), level))
		closeFn = f.Close
	}

	log := zap.New(zapcore.NewTee(cores...))
	return log, func() error {
		_ = log.Sync()
		return closeFn()
	}, nil
}
