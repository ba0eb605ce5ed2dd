package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the service.
// All methods are safe on a nil receiver.
type Metrics struct {
	Registry            *prometheus.Registry
	CommandsTotal       *prometheus.CounterVec
	DeliveriesTotal     *prometheus.CounterVec
	WebhookRequests     *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New constructs and registers all metrics on a dedicated registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	commands := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_commands_total",
			Help: "Chat commands dispatched, by command.",
		},
		[]string{"command"},
	)
	deliveries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_deliveries_total",
			Help: "Outbound chat replies, by outcome.",
		},
		[]string{"outcome"},
	)
	webhook := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_webhook_requests_total",
			Help: "Inbound webhook requests, by outcome.",
		},
		[]string{"outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyst_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)

	registry.MustRegister(
		commands,
		deliveries,
		webhook,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:            registry,
		CommandsTotal:       commands,
		DeliveriesTotal:     deliveries,
		WebhookRequests:     webhook,
		HTTPRequestDuration: duration,
	}
}

// IncCommand increments the dispatched commands counter
func (m *Metrics) IncCommand(command string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// IncDelivery increments the outbound delivery counter for an outcome label
func (m *Metrics) IncDelivery(outcome string) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.WithLabelValues(outcome).Inc()
}

// IncWebhook increments the webhook request counter for an outcome label
func (m *Metrics) IncWebhook(outcome string) {
	if m == nil {
		return
	}
	m.WebhookRequests.WithLabelValues(outcome).Inc()
}

// ObserveRequest records an HTTP request duration
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
