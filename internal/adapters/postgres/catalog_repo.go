package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
	"github.com/prxgr4mmer/phone-market-analyst/pkg/retry"
)

// CatalogLoader reads the device catalog from PostgreSQL. It is used once
// at startup; the service never writes to the catalog tables.
type CatalogLoader struct {
	db     *DB
	retry  retry.Config
	logger *slog.Logger
}

// NewCatalogLoader creates a new PostgreSQL catalog loader
func NewCatalogLoader(db *DB) *CatalogLoader {
	return &CatalogLoader{
		db:     db,
		retry:  retry.DefaultConfig(),
		logger: db.logger.With("component", "postgres_catalog"),
	}
}

// Load returns all retailers and devices in their stored position order
func (l *CatalogLoader) Load(ctx context.Context) ([]domain.Device, []domain.Retailer, error) {
	type result struct {
		devices   []domain.Device
		retailers []domain.Retailer
	}

	res, err := retry.DoWithResult(ctx, l.retry, func(ctx context.Context) (result, error) {
		tx, err := l.db.Pool.BeginTx(ctx, pgx.TxOptions{
			IsoLevel:   pgx.RepeatableRead,
			AccessMode: pgx.ReadOnly,
		})
		if err != nil {
			return result{}, classify(fmt.Errorf("failed to begin transaction: %w", err))
		}
		defer tx.Rollback(ctx)

		retailers, err := loadRetailers(ctx, tx)
		if err != nil {
			return result{}, classify(err)
		}

		devices, err := loadDevices(ctx, tx)
		if err != nil {
			return result{}, classify(err)
		}

		if err := attachPrices(ctx, tx, devices); err != nil {
			return result{}, classify(err)
		}

		return result{devices: devices, retailers: retailers}, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	l.logger.Info("catalog loaded",
		"devices", len(res.devices),
		"retailers", len(res.retailers),
	)

	return res.devices, res.retailers, nil
}

func loadRetailers(ctx context.Context, tx pgx.Tx) ([]domain.Retailer, error) {
	query := `
		SELECT id, name, region
		FROM retailers
		ORDER BY position
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query retailers: %w", err)
	}

	retailers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Retailer, error) {
		var r domain.Retailer
		err := row.Scan(&r.ID, &r.Name, &r.Region)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan retailers: %w", err)
	}

	return retailers, nil
}

func loadDevices(ctx context.Context, tx pgx.Tx) ([]domain.Device, error) {
	query := `
		SELECT id, name, brand, storage, release_year, display, chip, battery, camera
		FROM devices
		ORDER BY position
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}

	devices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Device, error) {
		var d domain.Device
		err := row.Scan(
			&d.ID,
			&d.Name,
			&d.Brand,
			&d.Storage,
			&d.ReleaseYear,
			&d.Specs.Display,
			&d.Specs.Chip,
			&d.Specs.Battery,
			&d.Specs.Camera,
		)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan devices: %w", err)
	}

	return devices, nil
}

func attachPrices(ctx context.Context, tx pgx.Tx, devices []domain.Device) error {
	query := `
		SELECT device_id, retailer_id, price, url, last_updated
		FROM price_observations
		ORDER BY device_id, position
	`

	index := make(map[string]int, len(devices))
	for i, d := range devices {
		index[d.ID] = i
	}

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query price observations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deviceID string
		var p domain.PriceObservation
		if err := rows.Scan(&deviceID, &p.RetailerID, &p.Price, &p.URL, &p.LastUpdated); err != nil {
			return fmt.Errorf("failed to scan price observation: %w", err)
		}

		i, ok := index[deviceID]
		if !ok {
			continue
		}
		devices[i].Prices = append(devices[i].Prices, p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate price observations: %w", err)
	}

	return nil
}

// classify marks connection-level failures as retryable
func classify(err error) error {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return retry.NewRetryableError(err)
	}
	return err
}

// Ensure CatalogLoader implements ports.CatalogLoader
var _ ports.CatalogLoader = (*CatalogLoader)(nil)
