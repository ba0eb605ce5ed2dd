package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prxgr4mmer/phone-market-analyst/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, config.CatalogSourceEmbedded, cfg.Catalog.Source)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Telegram.Timeout)
	assert.Equal(t, "file://migrations", cfg.Database.MigrationsPath)
	assert.Empty(t, cfg.Logging.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_PATH", "/etc/analyst/catalog.yaml")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_TIMEOUT", "3s")
	t.Setenv("DB_CONNECT_RETRIES", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/etc/analyst/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 3*time.Second, cfg.Telegram.Timeout)
	assert.Equal(t, 5, cfg.Database.ConnectRetries, "unparsable values fall back to the default")
	assert.NoError(t, cfg.Validate())
}

func validConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Catalog:  config.CatalogConfig{Source: config.CatalogSourceEmbedded},
		Telegram: config.TelegramConfig{Timeout: 10 * time.Second},
		Logging:  config.LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "port too low", mutate: func(c *config.Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "port too high", mutate: func(c *config.Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "unknown catalog source", mutate: func(c *config.Config) { c.Catalog.Source = "s3" }, wantErr: "invalid catalog source"},
		{name: "file source without path", mutate: func(c *config.Config) { c.Catalog.Source = config.CatalogSourceFile }, wantErr: "catalog path"},
		{
			name: "file source with path",
			mutate: func(c *config.Config) {
				c.Catalog.Source = config.CatalogSourceFile
				c.Catalog.Path = "catalog.yaml"
			},
		},
		{name: "postgres source without url", mutate: func(c *config.Config) { c.Catalog.Source = config.CatalogSourcePostgres }, wantErr: "database URL"},
		{
			name: "postgres source with negative retries",
			mutate: func(c *config.Config) {
				c.Catalog.Source = config.CatalogSourcePostgres
				c.Database.URL = "postgres://localhost/catalog"
				c.Database.ConnectRetries = -1
			},
			wantErr: "connect retries",
		},
		{name: "zero telegram timeout", mutate: func(c *config.Config) { c.Telegram.Timeout = 0 }, wantErr: "telegram timeout"},
		{name: "invalid log level", mutate: func(c *config.Config) { c.Logging.Level = "verbose" }, wantErr: "invalid log level"},
		{name: "invalid log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "invalid log format"},
		{
			name: "log file without size",
			mutate: func(c *config.Config) {
				c.Logging.File = "/var/log/analyst.log"
				c.Logging.MaxSizeMB = 0
			},
			wantErr: "log max size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
