package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/metrics"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

// Handler contains all HTTP handlers
type Handler struct {
	analysis   ports.AnalysisService
	trend      ports.TrendService
	dispatcher ports.DispatcherService
	messenger  ports.Messenger
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(
	analysis ports.AnalysisService,
	trend ports.TrendService,
	dispatcher ports.DispatcherService,
	messenger ports.Messenger,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		analysis:   analysis,
		trend:      trend,
		dispatcher: dispatcher,
		messenger:  messenger,
		metrics:    m,
		logger:     logger.With("component", "http_handler"),
	}
}

// Health returns service health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	devices := 0

	probe, err := h.analysis.Probe(r.Context())
	if err != nil {
		h.logger.Warn("health probe failed", "error", err)
		status = "degraded"
	} else {
		devices = probe.Devices
	}

	messengerStatus := "disabled"
	if h.messenger.Enabled() {
		messengerStatus = "configured"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"devices":   devices,
		"messenger": messengerStatus,
	})
}

// GetSnapshot returns the market snapshot for the query filter
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	snapshot, err := h.analysis.ComputeSnapshot(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// parseFilter reads comma-separated filter lists and price bounds from
// the query string
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()

	filter := domain.Filter{
		Brands:    splitList(q.Get("brands")),
		Retailers: splitList(q.Get("retailers")),
	}

	for _, bound := range []struct {
		name string
		dst  **int64
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := strings.TrimSpace(q.Get(bound.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.Filter{}, domain.NewDomainError(domain.ErrInvalidFilter, bound.name+" must be an integer", "INVALID_FILTER")
		}
		*bound.dst = &v
	}

	for _, raw := range splitList(q.Get("years")) {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Filter{}, domain.NewDomainError(domain.ErrInvalidFilter, "years must be integers", "INVALID_FILTER")
		}
		filter.ReleaseYears = append(filter.ReleaseYears, year)
	}

	return filter, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// OfferResponse is one retailer offer in the device detail
type OfferResponse struct {
	RetailerID  string    `json:"retailer_id"`
	Retailer    string    `json:"retailer"`
	Region      string    `json:"region,omitempty"`
	Price       int64     `json:"price"`
	URL         string    `json:"url,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// DeviceResponse is the device detail with offers resolved against the
// retailer list
type DeviceResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Storage       string          `json:"storage"`
	ReleaseYear   int             `json:"release_year"`
	Specs         domain.Specs    `json:"specs"`
	BestPrice     int64           `json:"best_price"`
	BestRetailer  string          `json:"best_retailer"`
	WorstPrice    int64           `json:"worst_price"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	PriceSpread   int64           `json:"price_spread"`
	SpreadPercent decimal.Decimal `json:"spread_percent"`
	Offers        []OfferResponse `json:"offers"`
}

// GetDevice returns the analysis of one device
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	device, err := h.analysis.GetDeviceByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	options, err := h.analysis.FilterOptions(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	retailers := make(map[string]domain.Retailer, len(options.Retailers))
	for _, rt := range options.Retailers {
		retailers[rt.ID] = rt
	}

	offers := make([]OfferResponse, len(device.Prices))
	for i, p := range device.Prices {
		rt := retailers[p.RetailerID]
		name := rt.Name
		if name == "" {
			name = p.RetailerID
		}
		offers[i] = OfferResponse{
			RetailerID:  p.RetailerID,
			Retailer:    name,
			Region:      rt.Region,
			Price:       p.Price,
			URL:         p.URL,
			LastUpdated: p.LastUpdated,
		}
	}

	respondJSON(w, http.StatusOK, DeviceResponse{
		ID:            device.ID,
		Name:          device.Name,
		Brand:         device.Brand,
		Storage:       device.Storage,
		ReleaseYear:   device.ReleaseYear,
		Specs:         device.Specs,
		BestPrice:     device.BestPrice.Price,
		BestRetailer:  device.BestPrice.RetailerID,
		WorstPrice:    device.WorstPrice.Price,
		AveragePrice:  device.AveragePrice,
		PriceSpread:   device.PriceSpread,
		SpreadPercent: device.SpreadPercent,
		Offers:        offers,
	})
}

// GetTrend returns the trailing daily price series of a device
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	series, err := h.trend.BuildTrendSeries(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"device_id": id,
		"series":    series,
	})
}

// GetFilters returns the selectable dashboard filter values
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.analysis.FilterOptions(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, options)
}
