package ports

import (
	"context"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

// CatalogRepository defines the read-only contract over the device catalog
type CatalogRepository interface {
	// ListDevices returns every device in catalog order
	ListDevices(ctx context.Context) ([]domain.Device, error)

	// GetDevice returns one device by id
	GetDevice(ctx context.Context, id string) (*domain.Device, error)

	// ListRetailers returns every retailer in catalog order
	ListRetailers(ctx context.Context) ([]domain.Retailer, error)
}

// CatalogLoader reads a full catalog from a backing store
type CatalogLoader interface {
	// Load returns all devices and retailers
	Load(ctx context.Context) ([]domain.Device, []domain.Retailer, error)
}
