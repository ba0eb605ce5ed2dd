package domain

import "errors"

var (
	// Catalog errors
	ErrDeviceNotFound     = errors.New("device not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidCatalog     = errors.New("invalid catalog")

	// Query errors
	ErrInvalidFilter = errors.New("invalid filter")

	// Webhook errors
	ErrUnauthorized = errors.New("unauthorized")

	// Messenger errors
	ErrMessengerDisabled = errors.New("messenger not configured")
	ErrDeliveryFailed    = errors.New("message delivery failed")

	// General errors
	ErrInternal = errors.New("internal server error")
)

// DomainError wraps domain errors with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error with context
func NewDomainError(err error, message, code string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// IsDomainError checks if the error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}
