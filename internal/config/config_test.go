// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.TimeoutSecs != 120 {
		t.Errorf("timeout = %d, want 120", cfg.Gemini.TimeoutSecs)
	}
	if cfg.UI.MaxWebCitations != 3 {
		t.Errorf("max web citations = %d, want 3", cfg.UI.MaxWebCitations)
	}
	if !cfg.Location.Enabled {
		t.Error("location should be enabled by default")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
version = "1.0.0"

[gemini]
api_key = "file-key"
model = "gemini-2.5-pro"
timeout_secs = 60

[location]
enabled = true
latitude = 31.5204
longitude = 74.3587

[ui]
theme = "light"
max_web_citations = 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Gemini.APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.MaxWebCitations != 5 {
		t.Errorf("max web citations = %d", cfg.UI.MaxWebCitations)
	}
	if !cfg.HasLocationOverride() {
		t.Error("override coordinates should be detected")
	}
	// Unset sections keep their defaults.
	if cfg.Location.TimeoutSecs != 5 {
		t.Errorf("location timeout = %d, want default 5", cfg.Location.TimeoutSecs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HANIA_API_KEY", "env-key")
	t.Setenv("HANIA_MODEL", "gemini-env")
	t.Setenv("HANIA_MAX_WEB_CITATIONS", "7")

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatalf("ApplyEnvOverrides: %v", err)
	}

	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-env" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.UI.MaxWebCitations != 7 {
		t.Errorf("max web citations = %d", cfg.UI.MaxWebCitations)
	}
}

func TestEnvAPIKeyFallbacks(t *testing.T) {
	t.Setenv("HANIA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("API_KEY", "plain-key")

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatal(err)
	}
	if cfg.Gemini.APIKey != "gemini-key" {
		t.Errorf("api key = %q, want GEMINI_API_KEY to win over API_KEY", cfg.Gemini.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "")
	cfg = Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatal(err)
	}
	if cfg.Gemini.APIKey != "plain-key" {
		t.Errorf("api key = %q, want API_KEY fallback", cfg.Gemini.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"negative citations", func(c *Config) { c.UI.MaxWebCitations = -1 }},
		{"zero timeout", func(c *Config) { c.Gemini.TimeoutSecs = 0 }},
		{"latitude out of range", func(c *Config) { c.Location.Latitude = 91 }},
		{"longitude out of range", func(c *Config) { c.Location.Longitude = -200 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Gemini.APIKey = "saved-key"
	cfg.UI.Theme = "auto"

	// SaveTOML targets ~/.hania; write to the temp path directly
	// through the same encoder.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		t.Fatal(err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Gemini.APIKey != "saved-key" || loaded.UI.Theme != "auto" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestHasLocationOverride(t *testing.T) {
	cfg := Default()
	if cfg.HasLocationOverride() {
		t.Error("zero coordinates are not an override")
	}
	cfg.Location.Latitude = 24.86
	if !cfg.HasLocationOverride() {
		t.Error("nonzero latitude should count as an override")
	}
}

func TestGlobalReload(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	custom := Default()
	custom.Gemini.Model = "custom-model"
	SetGlobal(custom)

	if Global().Gemini.Model != "custom-model" {
		t.Error("SetGlobal did not take effect")
	}
}

func TestWatcherFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("version = \"1.0.0\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("version = \"1.0.1\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire after config change")
	}
}
