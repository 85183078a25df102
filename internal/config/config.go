// Package config handles the XDG configuration directory, the config file,
// and the session database path.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "taskman"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.json"

	// SessionDBFile is the sqlite file holding persisted session state.
	SessionDBFile = "session.db"

	// DefaultBaseURL is used when neither the config file nor the
	// environment names an API endpoint.
	DefaultBaseURL = "http://localhost:8000/api"

	// EnvBaseURL overrides the configured API endpoint.
	EnvBaseURL = "TASKMAN_API_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the API endpoint the client talks to.
	BaseURL string

	// Backend selects the backend convention ("express" or "laravel").
	Backend string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig is the on-disk shape of config.json.
type fileConfig struct {
	BaseURL string `json:"base_url"`
	Backend string `json:"backend"`
}

// New creates a Config rooted at the default or specified config directory
// and loads config.json if present. The TASKMAN_API_URL environment
// variable wins over the file.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir, BaseURL: DefaultBaseURL}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err == nil {
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
		if fc.BaseURL != "" {
			cfg.BaseURL = fc.BaseURL
		}
		cfg.Backend = fc.Backend
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionDBPath returns the path of the sqlite session store.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Dir, SessionDBFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Save writes the current base URL and backend convention to config.json.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fileConfig{BaseURL: c.BaseURL, Backend: c.Backend}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Dir, ConfigFile), data, 0600)
}
