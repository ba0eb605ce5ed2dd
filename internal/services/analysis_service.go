package services

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

// AnalysisService implements the ports.AnalysisService interface.
// Every call recomputes from the catalog; nothing is cached.
type AnalysisService struct {
	catalog ports.CatalogRepository
	logger  *slog.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(catalog ports.CatalogRepository, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		catalog: catalog,
		logger:  logger.With("component", "analysis_service"),
	}
}

// ComputeSnapshot returns the analytics of every device matching the filter
func (s *AnalysisService) ComputeSnapshot(ctx context.Context, filter domain.Filter) (*domain.MarketSnapshot, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	devices, err := s.catalog.ListDevices(ctx)
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	match := filter.Matcher()
	included := make([]domain.PhoneAnalysis, 0, len(devices))
	for _, d := range devices {
		analysis, ok := domain.Analyze(d)
		if !ok {
			continue
		}
		if match(analysis) {
			included = append(included, analysis)
		}
	}

	return buildSnapshot(included), nil
}

func buildSnapshot(devices []domain.PhoneAnalysis) *domain.MarketSnapshot {
	snapshot := &domain.MarketSnapshot{
		Devices:         devices,
		OverallAverage:  decimal.Zero,
		MostCompetitive: []domain.PhoneAnalysis{},
		HighestSpread:   []domain.PhoneAnalysis{},
	}
	if len(devices) == 0 {
		return snapshot
	}

	var sum int64
	for _, d := range devices {
		sum += d.BestPrice.Price
	}
	snapshot.OverallAverage = decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(devices)))).
		Round(domain.AveragePrecision)

	competitive := slices.Clone(devices)
	slices.SortStableFunc(competitive, func(a, b domain.PhoneAnalysis) int {
		return a.SpreadPercent.Cmp(b.SpreadPercent)
	})
	snapshot.MostCompetitive = competitive[:min(domain.RankingSize, len(competitive))]

	spread := slices.Clone(devices)
	slices.SortStableFunc(spread, func(a, b domain.PhoneAnalysis) int {
		return cmp.Compare(b.PriceSpread, a.PriceSpread)
	})
	snapshot.HighestSpread = spread[:min(domain.RankingSize, len(spread))]

	return snapshot
}

// GetDeviceByID returns the analysis of one device, unfiltered
func (s *AnalysisService) GetDeviceByID(ctx context.Context, id string) (*domain.PhoneAnalysis, error) {
	device, err := s.catalog.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get device", "device_id", id, "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	analysis, ok := domain.Analyze(*device)
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return &analysis, nil
}

// FindByNameContains returns the first analyzable device, in catalog order,
// whose name contains query case-insensitively
func (s *AnalysisService) FindByNameContains(ctx context.Context, query string) (*domain.PhoneAnalysis, error) {
	devices, err := s.catalog.ListDevices(ctx)
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	for _, d := range devices {
		if !d.NameContains(query) {
			continue
		}
		if analysis, ok := domain.Analyze(d); ok {
			return &analysis, nil
		}
	}

	return nil, domain.ErrDeviceNotFound
}

// ListBrands returns the distinct brands sorted lexically
func (s *AnalysisService) ListBrands(ctx context.Context) ([]string, error) {
	devices, err := s.catalog.ListDevices(ctx)
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	brands := make([]string, 0, len(devices))
	for _, d := range devices {
		brands = append(brands, d.Brand)
	}
	slices.Sort(brands)
	return slices.Compact(brands), nil
}

// ListRetailers returns the distinct retailer ids sorted lexically
func (s *AnalysisService) ListRetailers(ctx context.Context) ([]string, error) {
	retailers, err := s.catalog.ListRetailers(ctx)
	if err != nil {
		s.logger.Error("failed to list retailers", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	ids := make([]string, 0, len(retailers))
	for _, r := range retailers {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// ListReleaseYears returns the distinct release years, newest first
func (s *AnalysisService) ListReleaseYears(ctx context.Context) ([]int, error) {
	devices, err := s.catalog.ListDevices(ctx)
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}

	years := make([]int, 0, len(devices))
	for _, d := range devices {
		years = append(years, d.ReleaseYear)
	}
	slices.Sort(years)
	years = slices.Compact(years)
	slices.Reverse(years)
	return years, nil
}

// FilterOptions bundles brands, retailers, release years and the default
// dashboard price window
func (s *AnalysisService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	brands, err := s.ListBrands(ctx)
	if err != nil {
		return nil, err
	}

	years, err := s.ListReleaseYears(ctx)
	if err != nil {
		return nil, err
	}

	retailers, err := s.catalog.ListRetailers(ctx)
	if err != nil {
		s.logger.Error("failed to list retailers", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}
	sorted := slices.Clone(retailers)
	slices.SortStableFunc(sorted, func(a, b domain.Retailer) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return &domain.FilterOptions{
		Brands:       brands,
		Retailers:    sorted,
		ReleaseYears: years,
		PriceRange: domain.PriceRange{
			Min: domain.DefaultMinPrice,
			Max: domain.DefaultMaxPrice,
		},
	}, nil
}

// Probe returns the unfiltered device count and overall average
func (s *AnalysisService) Probe(ctx context.Context) (*domain.Probe, error) {
	snapshot, err := s.ComputeSnapshot(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	return &domain.Probe{
		Devices:      len(snapshot.Devices),
		AveragePrice: snapshot.OverallAverage,
	}, nil
}

// Ensure AnalysisService implements ports.AnalysisService
var _ ports.AnalysisService = (*AnalysisService)(nil)
