// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for hania.
//
// Configuration comes from three layers, later layers winning:
//   - Built-in defaults
//   - ~/.hania/config.toml
//   - Environment variables (HANIA_* plus API_KEY / GEMINI_API_KEY)
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"

	"github.com/haniahealth/hania-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete hania configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// Gemini API configuration
	Gemini GeminiConfig `toml:"gemini"`

	// Location configuration
	Location LocationConfig `toml:"location"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// GeminiConfig contains Gemini API settings.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Also read from GEMINI_API_KEY or
	// API_KEY for compatibility with existing deployments.
	APIKey string `toml:"api_key" env:"HANIA_API_KEY"`
	// Model is the Gemini model used for all exchanges.
	Model string `toml:"model" env:"HANIA_MODEL"`
	// BaseURL overrides the API endpoint, mainly for testing.
	BaseURL string `toml:"base_url" env:"HANIA_BASE_URL"`
	// TimeoutSecs bounds a single exchange in seconds.
	TimeoutSecs int `toml:"timeout_secs" env:"HANIA_TIMEOUT_SECS"`
}

// LocationConfig contains location provider settings.
type LocationConfig struct {
	// Enabled controls whether a location is resolved at all.
	Enabled bool `toml:"enabled" env:"HANIA_LOCATION_ENABLED"`
	// Latitude and Longitude, when both are set, pin the location and
	// skip the IP lookup.
	Latitude  float64 `toml:"latitude" env:"HANIA_LATITUDE"`
	Longitude float64 `toml:"longitude" env:"HANIA_LONGITUDE"`
	// Endpoint overrides the IP geolocation service URL.
	Endpoint string `toml:"endpoint" env:"HANIA_LOCATION_ENDPOINT"`
	// TimeoutSecs bounds the lookup in seconds.
	TimeoutSecs int `toml:"timeout_secs" env:"HANIA_LOCATION_TIMEOUT_SECS"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" env:"HANIA_THEME"`
	// CompactMode uses a tighter layout with less padding.
	CompactMode bool `toml:"compact_mode" env:"HANIA_COMPACT"`
	// MaxWebCitations caps how many web source chips render per reply.
	// Place citations are never capped.
	MaxWebCitations int `toml:"max_web_citations" env:"HANIA_MAX_WEB_CITATIONS"`
	// ShowTimestamps renders a timestamp next to each turn.
	ShowTimestamps bool `toml:"show_timestamps" env:"HANIA_SHOW_TIMESTAMPS"`
}

// LoggingConfig contains diagnostic logging settings. Logs go to a
// file, never the terminal; the TUI owns the screen.
type LoggingConfig struct {
	// Enabled turns file logging on.
	Enabled bool `toml:"enabled" env:"HANIA_LOG_ENABLED"`
	// Path is the log file path (empty = ~/.hania/hania.log).
	Path string `toml:"path" env:"HANIA_LOG_PATH"`
	// Level is the minimum level: "debug", "info", "warn", "error"
	Level string `toml:"level" env:"HANIA_LOG_LEVEL"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.5-flash",
			BaseURL:     "",
			TimeoutSecs: 120,
		},

		Location: LocationConfig{
			Enabled:     true,
			TimeoutSecs: 5,
		},

		UI: UIConfig{
			Theme:           "dark",
			CompactMode:     false,
			MaxWebCitations: 3,
			ShowTimestamps:  false,
		},

		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the hania configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".hania"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files hold the API key and should be owner read/write only.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.hania/config.toml, falling back to
// defaults when the file is absent. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all filesystems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with full
// validation, mainly for tests and the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides onto cfg.
//
// Struct env tags handle the HANIA_* family; the API key additionally
// falls back to GEMINI_API_KEY and API_KEY, the names the hosted
// version of this assistant already uses.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if c.Gemini.APIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.Gemini.APIKey = key
		} else if key := os.Getenv("API_KEY"); key != "" {
			c.Gemini.APIKey = key
		}
	}

	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaults.Gemini.Model
	}
	if c.Gemini.TimeoutSecs <= 0 {
		c.Gemini.TimeoutSecs = defaults.Gemini.TimeoutSecs
	}
	if c.Location.TimeoutSecs <= 0 {
		c.Location.TimeoutSecs = defaults.Location.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.MaxWebCitations == 0 {
		c.UI.MaxWebCitations = defaults.UI.MaxWebCitations
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600
// permissions; the file holds the API key. The write is atomic so a crash
// mid-save never leaves a truncated config behind.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# hania configuration file")
	fmt.Fprintln(&buf, "# Generated by hania - edit with care")
	fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of: dark, light, auto (got %q)", c.UI.Theme),
		})
	}

	if c.UI.MaxWebCitations < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_web_citations",
			Message: fmt.Sprintf("must not be negative (got %d)", c.UI.MaxWebCitations),
		})
	}

	if c.Gemini.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "gemini.timeout_secs",
			Message: fmt.Sprintf("must be positive (got %d)", c.Gemini.TimeoutSecs),
		})
	}

	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, ValidationError{
			Field:   "location.latitude",
			Message: fmt.Sprintf("must be within [-90, 90] (got %v)", c.Location.Latitude),
		})
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs = append(errs, ValidationError{
			Field:   "location.longitude",
			Message: fmt.Sprintf("must be within [-180, 180] (got %v)", c.Location.Longitude),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error (got %q)", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasLocationOverride reports whether a fixed coordinate is configured.
// A zero/zero pair is treated as unset; it is in the Atlantic, not a
// plausible configured location.
func (c *Config) HasLocationOverride() bool {
	return c.Location.Latitude != 0 || c.Location.Longitude != 0
}

// LogPath returns the effective log file path.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hania.log"), nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig     *Config
	globalConfigMu   sync.RWMutex
	globalConfigOnce sync.Once
)

// Global returns the global configuration, loading it on first use.
// Load failures fall back to defaults with a warning; the chat should
// come up even with a broken config file.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
