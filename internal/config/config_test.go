package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadParsesSections(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
host = "127.0.0.1"

[logging]
level = "debug"
format = "json"

[asr]
use_local = true
timeout_seconds = 30

[gemma]
model_path = "/models/gemma-2b.gguf"
context_size = 4096

[storage]
enabled = true
database_path = "history.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if !cfg.ASR.UseLocal || cfg.ASR.TimeoutSecs != 30 {
		t.Errorf("unexpected asr config: %+v", cfg.ASR)
	}
	if cfg.Gemma.ModelPath != "/models/gemma-2b.gguf" || cfg.Gemma.ContextSize != 4096 {
		t.Errorf("unexpected gemma config: %+v", cfg.Gemma)
	}
	if !cfg.Storage.Enabled || cfg.Storage.DatabasePath != "history.db" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.StaticFilesDir != "www" {
		t.Errorf("default static dir = %q, want www", cfg.Server.StaticFilesDir)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Gemma.ContextSize != 2048 {
		t.Errorf("default context size = %d, want 2048", cfg.Gemma.ContextSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad context size", func(c *Config) { c.Gemma.ContextSize = 0 }},
		{"storage without path", func(c *Config) { c.Storage.Enabled = true; c.Storage.DatabasePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}
