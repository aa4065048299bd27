package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by CreateStore.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Id strategies understood by the checklist controller.
const (
	IDStrategyUUID      = "uuid"
	IDStrategyTimestamp = "timestamp"
)

// Config holds all configuration options for the checklist application
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Tasks       TasksConfig       `toml:"tasks"`
	Chart       ChartConfig       `toml:"chart"`
	Server      ServerConfig      `toml:"server"`
	Application ApplicationConfig `toml:"application"`
}

// StorageConfig holds persistent store configuration
type StorageConfig struct {
	Driver         string        `toml:"driver" env:"CHECKLIST_STORAGE_DRIVER"`
	Dir            string        `toml:"dir" env:"CHECKLIST_DB_DIR"`
	Filename       string        `toml:"filename" env:"CHECKLIST_DB_FILENAME"`
	DSN            string        `toml:"dsn" env:"CHECKLIST_DB_DSN"`
	Key            string        `toml:"key" env:"CHECKLIST_STORAGE_KEY"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"CHECKLIST_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"CHECKLIST_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"CHECKLIST_DB_DIR_PERMISSIONS"`
}

// TasksConfig holds task rules
type TasksConfig struct {
	IDStrategy    string `toml:"id_strategy" env:"CHECKLIST_ID_STRATEGY"`
	TextMaxLength int    `toml:"text_max_length" env:"CHECKLIST_TEXT_MAX_LENGTH"`
}

// ChartConfig holds the progress chart image settings
type ChartConfig struct {
	BaseURL string   `toml:"base_url" env:"CHECKLIST_CHART_BASE_URL"`
	Width   int      `toml:"width" env:"CHECKLIST_CHART_WIDTH"`
	Height  int      `toml:"height" env:"CHECKLIST_CHART_HEIGHT"`
	Colors  []string `toml:"colors" env:"CHECKLIST_CHART_COLORS"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string   `toml:"addr" env:"CHECKLIST_SERVER_ADDR"`
	AllowedOrigins []string `toml:"allowed_origins" env:"CHECKLIST_SERVER_ALLOWED_ORIGINS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `toml:"timeout" env:"CHECKLIST_APP_TIMEOUT"`
	Verbose   bool          `toml:"verbose" env:"CHECKLIST_APP_VERBOSE"`
	LogLevel  string        `toml:"log_level" env:"CHECKLIST_LOG_LEVEL"`
	LogFormat string        `toml:"log_format" env:"CHECKLIST_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".checklist")

	return &Config{
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			Dir:            defaultDBDir,
			Filename:       "checklist.db",
			Key:            "@tarefas",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Tasks: TasksConfig{
			IDStrategy:    IDStrategyUUID,
			TextMaxLength: 0,
		},
		Chart: ChartConfig{
			BaseURL: "https://image-charts.com/chart",
			Width:   600,
			Height:  20,
			Colors:  []string{"ff0080", "8000ff"},
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
		},
		Application: ApplicationConfig{
			Timeout:   60 * time.Second,
			Verbose:   false,
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// GetQueryTimeout returns the store read timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Storage.QueryTimeout
}

// GetWriteTimeout returns the store write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if driver := os.Getenv("CHECKLIST_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dir := os.Getenv("CHECKLIST_DB_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("CHECKLIST_DB_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if dsn := os.Getenv("CHECKLIST_DB_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}
	if key := os.Getenv("CHECKLIST_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if timeout := os.Getenv("CHECKLIST_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("CHECKLIST_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("CHECKLIST_DB_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Task configuration
	if strategy := os.Getenv("CHECKLIST_ID_STRATEGY"); strategy != "" {
		c.Tasks.IDStrategy = strategy
	}
	if maxLen := os.Getenv("CHECKLIST_TEXT_MAX_LENGTH"); maxLen != "" {
		c.Tasks.TextMaxLength = ParseIntWithFallback(maxLen, c.Tasks.TextMaxLength)
	}

	// Chart configuration
	if baseURL := os.Getenv("CHECKLIST_CHART_BASE_URL"); baseURL != "" {
		c.Chart.BaseURL = baseURL
	}
	if width := os.Getenv("CHECKLIST_CHART_WIDTH"); width != "" {
		c.Chart.Width = ParseIntWithFallback(width, c.Chart.Width)
	}
	if height := os.Getenv("CHECKLIST_CHART_HEIGHT"); height != "" {
		c.Chart.Height = ParseIntWithFallback(height, c.Chart.Height)
	}
	if colors := os.Getenv("CHECKLIST_CHART_COLORS"); colors != "" {
		c.Chart.Colors = splitList(colors)
	}

	// Server configuration
	if addr := os.Getenv("CHECKLIST_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if origins := os.Getenv("CHECKLIST_SERVER_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	// Application configuration
	if timeout := os.Getenv("CHECKLIST_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("CHECKLIST_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if level := os.Getenv("CHECKLIST_LOG_LEVEL"); level != "" {
		c.Application.LogLevel = level
	}
	if format := os.Getenv("CHECKLIST_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "database directory cannot be empty"}
		}
		if c.Storage.Filename == "" {
			return &ConfigError{Field: "storage.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return &ConfigError{Field: "storage.dsn", Message: "postgres driver requires a connection string"}
		}
	case DriverMemory:
	default:
		return &ConfigError{Field: "storage.driver", Message: "unknown storage driver: " + c.Storage.Driver}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate task configuration
	if c.Tasks.IDStrategy != IDStrategyUUID && c.Tasks.IDStrategy != IDStrategyTimestamp {
		return &ConfigError{Field: "tasks.id_strategy", Message: "id strategy must be uuid or timestamp"}
	}
	if c.Tasks.TextMaxLength < 0 {
		return &ConfigError{Field: "tasks.text_max_length", Message: "text max length cannot be negative"}
	}

	// Validate chart configuration
	if c.Chart.BaseURL == "" {
		return &ConfigError{Field: "chart.base_url", Message: "chart base url cannot be empty"}
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return &ConfigError{Field: "chart.size", Message: "chart width and height must be positive"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.LogFormat {
	case "text", "json", "logfmt":
	default:
		return &ConfigError{Field: "application.log_format", Message: "log format must be text, json or logfmt"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
