package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

// Memory is an immutable in-process catalog. It is built once at startup
// and shared read-only by all requests.
type Memory struct {
	devices   []domain.Device
	retailers []domain.Retailer
	index     map[string]int
}

// NewMemory validates and copies the given records into a catalog
func NewMemory(devices []domain.Device, retailers []domain.Retailer) (*Memory, error) {
	if err := domain.ValidateCatalog(devices, retailers); err != nil {
		return nil, err
	}

	m := &Memory{
		devices:   make([]domain.Device, len(devices)),
		retailers: slices.Clone(retailers),
		index:     make(map[string]int, len(devices)),
	}
	for i, d := range devices {
		d.Prices = slices.Clone(d.Prices)
		m.devices[i] = d
		m.index[d.ID] = i
	}

	return m, nil
}

// Load builds a memory catalog from any loader
func Load(ctx context.Context, loader ports.CatalogLoader) (*Memory, error) {
	devices, retailers, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewMemory(devices, retailers)
}

// ListDevices returns a copy of every device in catalog order
func (m *Memory) ListDevices(ctx context.Context) ([]domain.Device, error) {
	out := make([]domain.Device, len(m.devices))
	for i, d := range m.devices {
		d.Prices = slices.Clone(d.Prices)
		out[i] = d
	}
	return out, nil
}

// GetDevice returns a copy of one device by id
func (m *Memory) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	i, ok := m.index[id]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	d := m.devices[i]
	d.Prices = slices.Clone(d.Prices)
	return &d, nil
}

// ListRetailers returns a copy of every retailer in catalog order
func (m *Memory) ListRetailers(ctx context.Context) ([]domain.Retailer, error) {
	return slices.Clone(m.retailers), nil
}

// Len returns the number of devices, analyzable or not
func (m *Memory) Len() int {
	return len(m.devices)
}

// Ensure Memory implements ports.CatalogRepository
var _ ports.CatalogRepository = (*Memory)(nil)
