package ports

import (
	"context"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

// AnalysisService defines the contract for market analytics
type AnalysisService interface {
	// ComputeSnapshot returns the analytics of every device matching the filter
	ComputeSnapshot(ctx context.Context, filter domain.Filter) (*domain.MarketSnapshot, error)

	// GetDeviceByID returns the analysis of one device, unfiltered
	GetDeviceByID(ctx context.Context, id string) (*domain.PhoneAnalysis, error)

	// FindByNameContains returns the first device whose name contains query
	FindByNameContains(ctx context.Context, query string) (*domain.PhoneAnalysis, error)

	// ListBrands returns the distinct brands of the catalog
	ListBrands(ctx context.Context) ([]string, error)

	// ListRetailers returns the distinct retailer ids of the catalog
	ListRetailers(ctx context.Context) ([]string, error)

	// ListReleaseYears returns the distinct release years of the catalog
	ListReleaseYears(ctx context.Context) ([]int, error)

	// FilterOptions bundles the selectable filter values
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)

	// Probe returns the unfiltered device count and overall average
	Probe(ctx context.Context) (*domain.Probe, error)
}

// TrendService defines the contract for synthetic price histories
type TrendService interface {
	// BuildTrendSeries returns the trailing daily series of a device.
	// Unknown devices yield an empty series.
	BuildTrendSeries(ctx context.Context, deviceID string) ([]domain.TrendPoint, error)
}

// DispatcherService defines the contract for chat command handling
type DispatcherService interface {
	// Authorize checks the webhook secret presented by the caller
	Authorize(token string) bool

	// Dispatch handles one inbound update. A nil reply means nothing was dispatched.
	Dispatch(ctx context.Context, update *domain.Update) *domain.Reply
}
