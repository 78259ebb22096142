// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the diagnostic logger.
//
// Logs go to a file under ~/.hania, never to stdout or stderr: the TUI
// owns the terminal and any stray write corrupts the screen. Logging is
// off by default and the rest of the app is written against a nop
// logger, so nothing depends on it being enabled.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing JSON lines to path at the given minimum
// level. When enabled is false it returns a nop logger and never
// touches the filesystem.
func New(enabled bool, path, level string) (*zap.Logger, error) {
	if !enabled {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// parseLevel maps a config level string onto a zap level. Unknown
// strings land on info; config validation catches them earlier.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
