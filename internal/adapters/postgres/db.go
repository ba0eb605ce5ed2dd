package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prxgr4mmer/phone-market-analyst/internal/config"
	"github.com/prxgr4mmer/phone-market-analyst/pkg/retry"
)

// DB wraps the PostgreSQL connection pool holding the device catalog
type DB struct {
	Pool           *pgxpool.Pool
	config         config.DatabaseConfig
	logger         *slog.Logger
	migrationsPath string
}

// NewDB creates a new PostgreSQL connection pool. The initial ping is
// retried so the service can start alongside its database.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	log := logger.With("component", "postgres")
	retryConf := retry.DefaultConfig()
	retryConf.MaxRetries = cfg.ConnectRetries
	retryConf.OnRetry = func(attempt int, err error) {
		log.Warn("database not reachable, retrying", "attempt", attempt, "error", err)
	}

	err = retry.Do(ctx, retryConf, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.NewRetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"max_conns", cfg.MaxOpenConns,
		"min_conns", cfg.MaxIdleConns,
	)

	return &DB{
		Pool:           pool,
		config:         cfg,
		logger:         log,
		migrationsPath: cfg.MigrationsPath,
	}, nil
}

// Migrate brings the catalog schema up to date
func (db *DB) Migrate() error {
	db.logger.Info("running database migrations", "path", db.migrationsPath)

	m, err := migrate.New(db.migrationsPath, db.config.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	db.logger.Info("migrations completed",
		"version", version,
		"dirty", dirty,
	)

	return nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.logger.Info("closing database connection")
	db.Pool.Close()
}
