// Package config manages CLI configuration: a JSON file under the user's
// home directory overlaid with CARMSCLI_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// ConfigDirName is the name of the config directory
	ConfigDirName = ".carmscli"
	// ConfigFileName is the name of the config file
	ConfigFileName = "config.json"

	// DefaultServerURL is where the agent API listens by default.
	DefaultServerURL = "http://localhost:8000"

	defaultRequestTimeoutSecs = 30
)

// Config holds the CLI configuration.
type Config struct {
	// ServerURL is the base URL of the agent API.
	ServerURL string `json:"server_url" env:"CARMSCLI_SERVER_URL"`
	// RequestTimeoutSecs bounds unary requests (status, upload, delete).
	// The chat stream is never subject to it.
	RequestTimeoutSecs int `json:"request_timeout_secs" env:"CARMSCLI_REQUEST_TIMEOUT_SECS"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level" env:"CARMSCLI_LOG_LEVEL"`
	// NoColor disables ANSI styling.
	NoColor bool `json:"no_color" env:"CARMSCLI_NO_COLOR"`
}

// RequestTimeout returns the unary request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	secs := c.RequestTimeoutSecs
	if secs <= 0 {
		secs = defaultRequestTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// Paths holds commonly used paths
type Paths struct {
	// ConfigDir is ~/.carmscli
	ConfigDir string
	// ConfigFile is ~/.carmscli/config.json
	ConfigFile string
	// LogsDir is ~/.carmscli/logs
	LogsDir string
}

// GetPaths returns the standard paths
func GetPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ConfigDirName)
	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, ConfigFileName),
		LogsDir:    filepath.Join(configDir, "logs"),
	}, nil
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Default returns a new Config with default values
func Default() *Config {
	return &Config{
		ServerURL:          DefaultServerURL,
		RequestTimeoutSecs: defaultRequestTimeoutSecs,
		LogLevel:           "info",
	}
}

// Load reads the config file (if any) and overlays environment variables on
// top of it. A .env file in the working directory is honored first.
func Load() (*Config, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	config := Default()
	if data, err := os.ReadFile(paths.ConfigFile); err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return config, nil
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	paths, err := GetPaths()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(paths.ConfigFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(paths.ConfigFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
