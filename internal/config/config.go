package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server  ServerConfig  `toml:"server"`  // HTTP server settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
	ASR     ASRConfig     `toml:"asr"`     // Speech-to-text backend settings
	Gemma   GemmaConfig   `toml:"gemma"`   // Local translation model settings
	Gemini  GeminiConfig  `toml:"gemini"`  // Hosted translation model settings
	Storage StorageConfig `toml:"storage"` // Data persistence settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port             int    `toml:"port"`                  // HTTP port for the server
	Host             string `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only)
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs  int    `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next keep-alive request
	StaticFilesDir   string `toml:"static_files_dir"`      // Directory to serve static files from (e.g., "www")
}

// LoggingConfig contains application logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: debug, info, warn, error
	Format string `toml:"format"` // Log format: console or json
}

// ASRConfig contains speech-to-text backend settings
type ASRConfig struct {
	UseLocal       bool     `toml:"use_local"`       // Probe local transcription servers instead of the hosted API
	LocalEndpoints []string `toml:"local_endpoints"` // Override for the local endpoint candidates
	TimeoutSecs    int      `toml:"timeout_seconds"` // HTTP timeout for transcription requests
}

// GemmaConfig contains local translation model settings
type GemmaConfig struct {
	ModelPath   string `toml:"model_path"`   // Path to the GGUF model file
	ContextSize int    `toml:"context_size"` // Context window passed to the runner
}

// GeminiConfig contains hosted translation model settings
type GeminiConfig struct {
	Enabled bool   `toml:"enabled"` // Use the hosted Gemini API instead of a local model
	Model   string `toml:"model"`   // Model name (e.g., "gemini-2.0-flash")
}

// StorageConfig contains data persistence settings
type StorageConfig struct {
	Enabled        bool   `toml:"enabled"`          // Persist translation history to SQLite
	DatabasePath   string `toml:"database_path"`    // Path to the SQLite database file
	MaxHistoryRows int    `toml:"max_history_rows"` // Default page size for history queries
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// Default returns a configuration with all defaults applied, used when no
// config file is present.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.ReadTimeoutSecs == 0 {
		c.Server.ReadTimeoutSecs = 30
	}
	if c.Server.IdleTimeoutSecs == 0 {
		c.Server.IdleTimeoutSecs = 60
	}
	if c.Server.StaticFilesDir == "" {
		c.Server.StaticFilesDir = "www"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.ASR.TimeoutSecs == 0 {
		c.ASR.TimeoutSecs = 120
	}
	if c.Gemma.ContextSize == 0 {
		c.Gemma.ContextSize = 2048
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "habla.db"
	}
	if c.Storage.MaxHistoryRows == 0 {
		c.Storage.MaxHistoryRows = 50
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.ASR.TimeoutSecs < 0 {
		return fmt.Errorf("invalid asr timeout: %d", c.ASR.TimeoutSecs)
	}

	if c.Gemma.ContextSize <= 0 {
		return fmt.Errorf("invalid gemma context size: %d", c.Gemma.ContextSize)
	}

	if c.Storage.Enabled && c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage enabled but no database path configured")
	}

	return nil
}
