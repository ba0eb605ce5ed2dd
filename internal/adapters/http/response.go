package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

// Response helpers for consistent JSON responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WebhookResponse is the acknowledgement returned to the chat platform
type WebhookResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErrorWithCode sends an error response with an error code
func respondErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleDomainError maps domain errors to HTTP responses
func handleDomainError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError

	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		message := "invalid filter"
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		respondErrorWithCode(w, http.StatusBadRequest, message, "INVALID_FILTER")

	case errors.Is(err, domain.ErrDeviceNotFound):
		respondErrorWithCode(w, http.StatusNotFound, "device not found", "DEVICE_NOT_FOUND")

	case errors.Is(err, domain.ErrUnauthorized):
		respondErrorWithCode(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")

	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondErrorWithCode(w, http.StatusServiceUnavailable, "catalog unavailable", "CATALOG_UNAVAILABLE")

	default:
		respondErrorWithCode(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
