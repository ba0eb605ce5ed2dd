package http

import (
	"encoding/json"
	"net/http"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

const (
	// SecretTokenHeader carries the webhook secret set at registration
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	maxUpdateBytes = 1 << 20
)

// Webhook outcomes
const (
	webhookAccepted     = "accepted"
	webhookIgnored      = "ignored"
	webhookUnauthorized = "unauthorized"
	webhookProbe        = "probe"
)

// authorizeWebhook rejects callers that do not present the webhook secret
func (h *Handler) authorizeWebhook(w http.ResponseWriter, r *http.Request) bool {
	if h.dispatcher.Authorize(r.Header.Get(SecretTokenHeader)) {
		return true
	}

	h.logger.Warn("webhook request rejected", "remote", r.RemoteAddr)
	h.metrics.IncWebhook(webhookUnauthorized)
	respondJSON(w, http.StatusUnauthorized, WebhookResponse{OK: false, Error: domain.ErrUnauthorized.Error()})
	return false
}

// TelegramWebhook accepts an update and dispatches its command. Once
// authorized, the caller always gets 200 so the platform does not redeliver.
func (h *Handler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeWebhook(w, r) {
		return
	}

	var update domain.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		h.logger.Debug("ignoring undecodable update", "error", err)
		h.metrics.IncWebhook(webhookIgnored)
		respondJSON(w, http.StatusOK, WebhookResponse{OK: true})
		return
	}

	if update.Message == nil {
		h.logger.Debug("ignoring update without message", "update_id", update.UpdateID)
		h.metrics.IncWebhook(webhookIgnored)
		respondJSON(w, http.StatusOK, WebhookResponse{OK: true})
		return
	}

	h.dispatcher.Dispatch(r.Context(), &update)
	h.metrics.IncWebhook(webhookAccepted)

	respondJSON(w, http.StatusOK, WebhookResponse{OK: true})
}

// TelegramProbe reports the catalog size and market average
func (h *Handler) TelegramProbe(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeWebhook(w, r) {
		return
	}

	probe, err := h.analysis.Probe(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	h.metrics.IncWebhook(webhookProbe)

	respondJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
		*domain.Probe
	}{
		OK:    true,
		Probe: probe,
	})
}
