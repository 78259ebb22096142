// hania - A terminal assistant for medical help in Pakistan.
//
// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/haniahealth/hania-tui/internal/config"
	"github.com/haniahealth/hania-tui/internal/gemini"
	"github.com/haniahealth/hania-tui/internal/geo"
	"github.com/haniahealth/hania-tui/internal/logging"
	"github.com/haniahealth/hania-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	noLocation := flag.Bool("no-location", false, "disable the startup location lookup")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hania %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// A .env in the working directory is a convenience for development;
	// absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	logPath, err := cfg.LogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not resolve log path: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Enabled, logPath, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: hania is an interactive application and needs a terminal")
		os.Exit(1)
	}

	client := buildClient(cfg, logger)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "Error: no API key configured.")
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY in the environment or add it to ~/.hania/config.toml")
		os.Exit(1)
	}
	logger.Info("starting hania",
		zap.String("version", Version),
		zap.String("model", client.Model()),
		zap.String("api_key", client.APIKeyMasked()),
	)

	locator := buildLocator(cfg, logger, *noLocation)

	m := chat.New(client, locator, cfg, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher := watchConfig(p, logger)
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildClient assembles the generate client from configuration.
func buildClient(cfg *config.Config, logger *zap.Logger) *gemini.Client {
	client := gemini.NewClient(cfg.Gemini.APIKey).
		WithModel(cfg.Gemini.Model).
		WithTimeout(time.Duration(cfg.Gemini.TimeoutSecs) * time.Second).
		WithLogger(logger)
	if cfg.Gemini.BaseURL != "" {
		client = client.WithBaseURL(cfg.Gemini.BaseURL)
	}
	return client
}

// buildLocator assembles the location provider, or nil when the lookup is
// disabled. A lat/lon pair in the config becomes a fixed override.
func buildLocator(cfg *config.Config, logger *zap.Logger, disabled bool) chat.Locator {
	if disabled || !cfg.Location.Enabled {
		return nil
	}

	var override *geo.Coordinate
	if cfg.HasLocationOverride() {
		override = &geo.Coordinate{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}
	}

	provider := geo.NewProvider(override).
		WithTimeout(time.Duration(cfg.Location.TimeoutSecs) * time.Second).
		WithLogger(logger)
	if cfg.Location.Endpoint != "" {
		provider = provider.WithEndpoint(cfg.Location.Endpoint)
	}
	return provider
}

// watchConfig reloads presentation settings when the config file changes on
// disk. Watching is best-effort; a failure only loses live reload.
func watchConfig(p *tea.Program, logger *zap.Logger) *config.Watcher {
	path, err := config.ConfigPath()
	if err != nil {
		return nil
	}

	watcher, err := config.NewWatcher(path, func() {
		if err := config.ReloadGlobal(); err != nil {
			logger.Warn("config reload failed", zap.Error(err))
			return
		}
		p.Send(chat.NewConfigReloadedMsg(config.Global()))
	})
	if err != nil {
		logger.Debug("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := watcher.Watch(); err != nil {
		logger.Debug("config watcher failed to start", zap.Error(err))
		watcher.Close()
		return nil
	}
	return watcher
}
