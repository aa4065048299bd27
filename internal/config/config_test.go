package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points the home directory at a temp dir so no user config is read.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CHECKLIST_CONFIG", "")
	return home
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	home := isolateHome(t)
	cfg := NewConfig()

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(home, ".checklist"), cfg.Storage.Dir)
	assert.Equal(t, "checklist.db", cfg.Storage.Filename)
	assert.Equal(t, "@tarefas", cfg.Storage.Key)
	assert.Equal(t, 10*time.Second, cfg.GetQueryTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, IDStrategyUUID, cfg.Tasks.IDStrategy)
	assert.Equal(t, 0, cfg.Tasks.TextMaxLength)
	assert.Equal(t, 600, cfg.Chart.Width)
	assert.Equal(t, 20, cfg.Chart.Height)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Application.LogLevel)
	assert.Equal(t, filepath.Join(home, ".checklist", "checklist.db"), cfg.GetDatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateHome(t)
	t.Setenv("CHECKLIST_STORAGE_DRIVER", "memory")
	t.Setenv("CHECKLIST_DB_DIR", "/tmp/checklist-env")
	t.Setenv("CHECKLIST_DB_FILENAME", "env.db")
	t.Setenv("CHECKLIST_STORAGE_KEY", "@other")
	t.Setenv("CHECKLIST_DB_QUERY_TIMEOUT", "3s")
	t.Setenv("CHECKLIST_DB_WRITE_TIMEOUT", "not-a-duration")
	t.Setenv("CHECKLIST_DB_DIR_PERMISSIONS", "700")
	t.Setenv("CHECKLIST_ID_STRATEGY", "timestamp")
	t.Setenv("CHECKLIST_TEXT_MAX_LENGTH", "120")
	t.Setenv("CHECKLIST_CHART_COLORS", "000000, ffffff")
	t.Setenv("CHECKLIST_SERVER_ALLOWED_ORIGINS", "http://localhost:3000,http://example.com")
	t.Setenv("CHECKLIST_APP_VERBOSE", "true")
	t.Setenv("CHECKLIST_LOG_FORMAT", "json")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/checklist-env", cfg.Storage.Dir)
	assert.Equal(t, "env.db", cfg.Storage.Filename)
	assert.Equal(t, "@other", cfg.Storage.Key)
	assert.Equal(t, 3*time.Second, cfg.Storage.QueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Storage.WriteTimeout, "invalid duration keeps the default")
	assert.Equal(t, uint32(0o700), cfg.Storage.DirPermissions)
	assert.Equal(t, IDStrategyTimestamp, cfg.Tasks.IDStrategy)
	assert.Equal(t, 120, cfg.Tasks.TextMaxLength)
	assert.Equal(t, []string{"000000", "ffffff"}, cfg.Chart.Colors)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, "json", cfg.Application.LogFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }, "storage.driver"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, "storage.dsn"},
		{"empty dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"empty filename", func(c *Config) { c.Storage.Filename = "" }, "storage.filename"},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "storage.key"},
		{"zero query timeout", func(c *Config) { c.Storage.QueryTimeout = 0 }, "storage.query_timeout"},
		{"zero write timeout", func(c *Config) { c.Storage.WriteTimeout = 0 }, "storage.write_timeout"},
		{"bad id strategy", func(c *Config) { c.Tasks.IDStrategy = "random" }, "tasks.id_strategy"},
		{"negative text length", func(c *Config) { c.Tasks.TextMaxLength = -1 }, "tasks.text_max_length"},
		{"empty chart url", func(c *Config) { c.Chart.BaseURL = "" }, "chart.base_url"},
		{"zero chart width", func(c *Config) { c.Chart.Width = 0 }, "chart.size"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
		{"bad log format", func(c *Config) { c.Application.LogFormat = "xml" }, "application.log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var configErr *ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestValidate_MemoryAndPostgres(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Driver = DriverMemory
	cfg.Storage.Dir = ""
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = DriverPostgres
	cfg.Storage.DSN = "postgres://localhost/checklist?sslmode=disable"
	assert.NoError(t, cfg.Validate())
}

func TestLoader_File(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, `
[storage]
driver = "memory"
key = "@from-file"
query_timeout = "2s"

[tasks]
id_strategy = "timestamp"
text_max_length = 80

[chart]
width = 300

[application]
log_level = "debug"
`)

	cfg, err := NewLoader().WithFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "@from-file", cfg.Storage.Key)
	assert.Equal(t, 2*time.Second, cfg.Storage.QueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Storage.WriteTimeout)
	assert.Equal(t, IDStrategyTimestamp, cfg.Tasks.IDStrategy)
	assert.Equal(t, 80, cfg.Tasks.TextMaxLength)
	assert.Equal(t, 300, cfg.Chart.Width)
	assert.Equal(t, 20, cfg.Chart.Height)
	assert.Equal(t, "debug", cfg.Application.LogLevel)
}

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, `
[storage]
driver = "memory"
key = "@from-file"
`)
	t.Setenv("CHECKLIST_STORAGE_KEY", "@from-env")

	cfg, err := NewLoader().WithFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "@from-env", cfg.Storage.Key)
}

func TestLoader_ConfigPathFromEnvironment(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, "[storage]\nkey = \"@env-path\"\n")
	t.Setenv("CHECKLIST_CONFIG", path)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "@env-path", cfg.Storage.Key)
}

func TestLoader_DefaultPath(t *testing.T) {
	home := isolateHome(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err, "missing default file is not an error")
	assert.Equal(t, "@tarefas", cfg.Storage.Key)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".checklist"), 0o755))
	require.NoError(t, os.WriteFile(DefaultConfigPath(), []byte("[storage]\nkey = \"@home\"\n"), 0o644))

	cfg, err = NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "@home", cfg.Storage.Key)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := NewLoader().WithFile(filepath.Join(t.TempDir(), "missing.toml")).Load()
	assert.Error(t, err)
}

func TestLoader_MalformedFile(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, "[storage\ndriver = ")

	_, err := NewLoader().WithFile(path).Load()
	assert.Error(t, err)
}

func TestLoader_InvalidFileValues(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, "[storage]\ndriver = \"oracle\"\n")

	_, err := NewLoader().WithFile(path).Load()
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "storage.driver", configErr.Field)
}

func TestLoadWithOverrides(t *testing.T) {
	isolateHome(t)
	driver := DriverMemory
	key := "@flag"
	strategy := IDStrategyTimestamp
	timeout := 5 * time.Second
	verbose := true

	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{
		Driver:     &driver,
		Key:        &key,
		IDStrategy: &strategy,
		Timeout:    &timeout,
		Verbose:    &verbose,
	})
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "@flag", cfg.Storage.Key)
	assert.Equal(t, IDStrategyTimestamp, cfg.Tasks.IDStrategy)
	assert.Equal(t, 5*time.Second, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
}

func TestLoadWithOverrides_Revalidates(t *testing.T) {
	isolateHome(t)
	strategy := "sequential"

	_, err := NewLoader().LoadWithOverrides(&ConfigOverrides{IDStrategy: &strategy})
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "tasks.id_strategy", configErr.Field)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("soon", time.Second))
	assert.Equal(t, 42, ParseIntWithFallback("42", 1))
	assert.Equal(t, 1, ParseIntWithFallback("x", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("maybe", false))
	assert.Equal(t, uint32(0o750), ParseUint32WithFallback("750", 8, 0))
	assert.Equal(t, uint32(7), ParseUint32WithFallback("9", 8, 7))
}
