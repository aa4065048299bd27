package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithFile sets an explicit configuration file; it must exist.
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadFile decodes the config file over the current values. An explicit path
// (WithFile or CHECKLIST_CONFIG) must exist; the default path is optional.
func (l *Loader) loadFile() error {
	path, required := l.filePath, l.filePath != ""
	if !required {
		if envPath := os.Getenv("CHECKLIST_CONFIG"); envPath != "" {
			path, required = envPath, true
		} else {
			path = DefaultConfigPath()
		}
	}
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, l.config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// DefaultConfigPath returns ~/.checklist/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".checklist", "config.toml")
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		config.ApplyOverrides(overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	Driver     *string
	DBDir      *string
	DBFilename *string
	DSN        *string
	Key        *string

	// Task overrides
	IDStrategy *string

	// Server overrides
	ServerAddr *string

	// Application overrides
	Timeout  *time.Duration
	Verbose  *bool
	LogLevel *string
}

// ApplyOverrides applies command line overrides to the configuration
func (c *Config) ApplyOverrides(overrides *ConfigOverrides) {
	if overrides.Driver != nil {
		c.Storage.Driver = *overrides.Driver
	}
	if overrides.DBDir != nil {
		c.Storage.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		c.Storage.Filename = *overrides.DBFilename
	}
	if overrides.DSN != nil {
		c.Storage.DSN = *overrides.DSN
	}
	if overrides.Key != nil {
		c.Storage.Key = *overrides.Key
	}
	if overrides.IDStrategy != nil {
		c.Tasks.IDStrategy = *overrides.IDStrategy
	}
	if overrides.ServerAddr != nil {
		c.Server.Addr = *overrides.ServerAddr
	}
	if overrides.Timeout != nil {
		c.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		c.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		c.Application.LogLevel = *overrides.LogLevel
	}
}
