// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8090".
	ListenAddr string `yaml:"listen_addr"`

	// DataDir is the directory holding the SQLite database file.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// TokenSigningKey is the HMAC key for admin session tokens.
	TokenSigningKey string `yaml:"token_signing_key"`

	// DefaultPageSize caps catalog list responses when no limit is given.
	DefaultPageSize int `yaml:"default_page_size"`
}

// Default returns the configuration defaults applied before file and
// environment values.
func Default() *Config {
	return &Config{
		ListenAddr:      ":8090",
		DataDir:         "./data",
		LogLevel:        "info",
		DefaultPageSize: 20,
	}
}

// Load reads configuration from path (optional, "" skips the file), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("VITRINE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("VITRINE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("VITRINE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("VITRINE_TOKEN_SIGNING_KEY"); v != "" {
		c.TokenSigningKey = v
	}
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > 100 {
		return fmt.Errorf("default_page_size must be between 1 and 100, got %d", c.DefaultPageSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
