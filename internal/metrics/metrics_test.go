package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prxgr4mmer/phone-market-analyst/internal/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.IncCommand("/report")
	m.IncCommand("/report")
	m.IncDelivery("failed")
	m.IncWebhook("unauthorized")

	body := scrape(t, m)
	assert.Contains(t, body, `analyst_commands_total{command="/report"} 2`)
	assert.Contains(t, body, `analyst_deliveries_total{outcome="failed"} 1`)
	assert.Contains(t, body, `analyst_webhook_requests_total{outcome="unauthorized"} 1`)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.IncCommand("/start")
		m.IncDelivery("sent")
		m.IncWebhook("accepted")
		m.ObserveRequest("GET /health", "200", time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.IncCommand("/health")
	m.ObserveRequest("GET /health", "200", 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `analyst_commands_total{command="/health"} 1`)
	assert.Contains(t, body, "analyst_http_request_duration_seconds")
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
