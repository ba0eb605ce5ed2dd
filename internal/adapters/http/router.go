package http

import (
	"log/slog"
	"net/http"
)

// NewRouter creates the HTTP router with all routes
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	// Dashboard API
	mux.HandleFunc("GET /api/snapshot", h.GetSnapshot)
	mux.HandleFunc("GET /api/devices/{id}", h.GetDevice)
	mux.HandleFunc("GET /api/devices/{id}/trend", h.GetTrend)
	mux.HandleFunc("GET /api/filters", h.GetFilters)

	// Chat webhook
	mux.HandleFunc("POST /api/telegram", h.TelegramWebhook)
	mux.HandleFunc("GET /api/telegram", h.TelegramProbe)

	// Metrics
	mux.Handle("GET /metrics", h.metrics.Handler())

	// Apply middleware chain (order matters: outer -> inner)
	var handler http.Handler = mux
	handler = MetricsMiddleware(h.metrics)(handler)
	handler = ContentTypeMiddleware(handler)
	handler = CORSMiddleware(handler)
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}
