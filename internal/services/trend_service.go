package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

const (
	// maxDailyStep bounds the relative move between two consecutive days
	maxDailyStep = 0.025

	// trendRounding is the granularity of intermediate trend prices, in Rial
	trendRounding = 10_000

	// pcgStream decorrelates the second PCG word from the seed
	pcgStream = 0x9e3779b97f4a7c15
)

// TrendService implements the ports.TrendService interface.
// Series are synthetic: a random walk seeded by the device id and
// anchored on the device's current best price.
type TrendService struct {
	analysis ports.AnalysisService
	now      func() time.Time
	logger   *slog.Logger
}

// TrendOption configures the trend service
type TrendOption func(*TrendService)

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) TrendOption {
	return func(s *TrendService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTrendService creates a new trend service
func NewTrendService(analysis ports.AnalysisService, logger *slog.Logger, opts ...TrendOption) *TrendService {
	s := &TrendService{
		analysis: analysis,
		now:      time.Now,
		logger:   logger.With("component", "trend_service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BuildTrendSeries returns TrendWindowDays daily points ending today.
// The last point equals the current best price; unknown devices yield
// an empty series.
func (s *TrendService) BuildTrendSeries(ctx context.Context, deviceID string) ([]domain.TrendPoint, error) {
	device, err := s.analysis.GetDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return []domain.TrendPoint{}, nil
		}
		return nil, err
	}

	return walk(deviceID, device.BestPrice.Price, startOfDay(s.now())), nil
}

func walk(deviceID string, anchor int64, today time.Time) []domain.TrendPoint {
	seed := xxhash.Sum64String(deviceID)
	rng := rand.New(rand.NewPCG(seed, seed^pcgStream))

	series := make([]domain.TrendPoint, domain.TrendWindowDays)
	last := domain.TrendWindowDays - 1
	series[last] = domain.TrendPoint{Date: today, Price: anchor}

	price := float64(anchor)
	for i := last - 1; i >= 0; i-- {
		price *= 1 + (rng.Float64()*2-1)*maxDailyStep
		series[i] = domain.TrendPoint{
			Date:  today.AddDate(0, 0, i-last),
			Price: roundTo(price, trendRounding),
		}
	}

	return series
}

func roundTo(v float64, unit int64) int64 {
	rounded := int64(math.Round(v/float64(unit))) * unit
	if rounded < 0 {
		return 0
	}
	return rounded
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Ensure TrendService implements ports.TrendService
var _ ports.TrendService = (*TrendService)(nil)
