// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultAITimeoutSeconds bounds one model answer when the config does not set it.
const DefaultAITimeoutSeconds = 30

// DefaultPort is the HTTP port used by serve when the config does not set it.
const DefaultPort = 8080

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Profile
	Profile     string `json:"profile,omitempty"`      // Path to a user profile JSON file
	UserID      string `json:"user_id,omitempty"`      // User UUID for database profiles
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Model
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	Model            string `json:"model,omitempty"`              // Model used to answer open questions
	AITimeoutSeconds int    `json:"ai_timeout_seconds,omitempty"` // Limit for one answer

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Drive a headless browser instead of static HTML
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information

	// Server
	Port int `json:"port,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging with flags.
func (c *Config) Validate() error {
	if c.Profile != "" && c.UserID != "" {
		return fmt.Errorf("config error: 'profile' and 'user_id' are mutually exclusive")
	}

	if c.UserID != "" {
		if _, err := uuid.Parse(c.UserID); err != nil {
			return fmt.Errorf("config error: 'user_id' is not a valid UUID: %w", err)
		}
	}

	if c.AITimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'ai_timeout_seconds' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}

	// Int fields: use default if zero
	if result.AITimeoutSeconds == 0 {
		if defaults.AITimeoutSeconds > 0 {
			result.AITimeoutSeconds = defaults.AITimeoutSeconds
		} else {
			result.AITimeoutSeconds = DefaultAITimeoutSeconds
		}
	}
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// AITimeout returns the answer timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutSeconds <= 0 {
		return DefaultAITimeoutSeconds * time.Second
	}
	return time.Duration(c.AITimeoutSeconds) * time.Second
}
