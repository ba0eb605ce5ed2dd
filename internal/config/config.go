package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog sources
const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig selects where the device catalog is read from at startup
type CatalogConfig struct {
	Source string
	Path   string
}

// DatabaseConfig holds PostgreSQL configuration. Only used by the
// postgres catalog source.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectRetries  int
	MigrationsPath  string
}

// TelegramConfig holds bot configuration. An empty BotToken disables
// outbound messages.
type TelegramConfig struct {
	BotToken      string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

// LoggingConfig holds logging configuration. Logs go to stdout unless
// File is set, in which case they are rotated by size.
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from a .env file, if present, and environment
// variables with defaults. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Catalog: CatalogConfig{
			Source: getEnvString("CATALOG_SOURCE", CatalogSourceEmbedded),
			Path:   getEnvString("CATALOG_PATH", ""),
		},
		Database: DatabaseConfig{
			URL:             getEnvString("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			ConnectRetries:  getEnvInt("DB_CONNECT_RETRIES", 5),
			MigrationsPath:  getEnvString("DB_MIGRATIONS_PATH", "file://migrations"),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnvString("TELEGRAM_BOT_TOKEN", ""),
			WebhookSecret: getEnvString("TELEGRAM_WEBHOOK_SECRET", ""),
			BaseURL:       getEnvString("TELEGRAM_BASE_URL", "https://api.telegram.org"),
			Timeout:       getEnvDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Format:     getEnvString("LOG_FORMAT", "json"),
			File:       getEnvString("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		},
	}, nil
}

// Validate ensures configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Catalog.Source {
	case CatalogSourceEmbedded:
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for the file source")
		}
	case CatalogSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database URL is required for the postgres source")
		}
		if c.Database.ConnectRetries < 0 {
			return fmt.Errorf("database connect retries must not be negative")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s", c.Catalog.Source)
	}

	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("telegram timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Logging.File != "" && c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("log max size must be at least 1 MB")
	}

	return nil
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
