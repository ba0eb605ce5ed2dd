package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prxgr4mmer/phone-market-analyst/internal/adapters/telegram"
	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

const (
	testToken   = "123:abc"
	testBaseURL = "https://bot.example"
	sendURL     = testBaseURL + "/bot" + testToken + "/sendMessage"
)

func TestClient_SendMessage(t *testing.T) {
	t.Run("posts markdown message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/bot"+testToken+"/sendMessage", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(42), body["chat_id"])
			assert.Equal(t, "*hello*", body["text"])
			assert.Equal(t, "Markdown", body["parse_mode"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
		}))
		defer server.Close()

		client := telegram.NewClient(testToken,
			telegram.WithBaseURL(server.URL),
			telegram.WithTimeout(5*time.Second),
		)

		require.NoError(t, client.SendMessage(context.Background(), 42, "*hello*"))
	})

	t.Run("non-2xx is a delivery failure", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, sendURL,
			httpmock.NewStringResponder(http.StatusBadRequest, `{"ok":false,"description":"Bad Request: can't parse entities"}`))

		client := telegram.NewClient(testToken,
			telegram.WithBaseURL(testBaseURL),
			telegram.WithTransport(transport),
		)

		err := client.SendMessage(context.Background(), 42, "*broken")
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
		assert.Equal(t, 1, transport.GetTotalCallCount())
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodPost, sendURL,
			httpmock.NewStringResponder(http.StatusBadGateway, ""))

		client := telegram.NewClient(testToken,
			telegram.WithBaseURL(testBaseURL),
			telegram.WithTransport(transport),
		)

		err := client.SendMessage(context.Background(), 42, "hi")
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
		assert.Equal(t, 1, transport.GetTotalCallCount())
	})

	t.Run("transport error is a delivery failure", func(t *testing.T) {
		transport := httpmock.NewMockTransport()

		client := telegram.NewClient(testToken,
			telegram.WithBaseURL(testBaseURL),
			telegram.WithTransport(transport),
		)

		err := client.SendMessage(context.Background(), 42, "hi")
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	})

	t.Run("disabled without token", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		client := telegram.NewClient("", telegram.WithTransport(transport))

		assert.False(t, client.Enabled())
		err := client.SendMessage(context.Background(), 42, "hi")
		assert.ErrorIs(t, err, domain.ErrMessengerDisabled)
		assert.Zero(t, transport.GetTotalCallCount())
	})
}

func TestClient_Enabled(t *testing.T) {
	assert.True(t, telegram.NewClient(testToken).Enabled())
	assert.False(t, telegram.NewClient("").Enabled())
}
