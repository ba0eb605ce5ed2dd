package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prxgr4mmer/phone-market-analyst/pkg/retry"
)

// connectError mimics a pgconn failure that happened before anything was sent
type connectError struct{}

func (connectError) Error() string { return "dial tcp 127.0.0.1:5432: connection refused" }
func (connectError) SafeToRetry() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "connection refused", err: fmt.Errorf("failed to begin transaction: %w", connectError{}), retryable: true},
		{name: "query error", err: errors.New(`relation "devices" does not exist`), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.retryable, retry.IsRetryable(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
