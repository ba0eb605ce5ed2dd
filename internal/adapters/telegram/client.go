package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

const (
	defaultBaseURL  = "https://api.telegram.org"
	sendMessagePath = "/bot%s/sendMessage"
	parseMode       = "Markdown"

	// maxErrorBody caps how much of a failed response is logged
	maxErrorBody = 1 << 12
)

// Client implements the Messenger interface for the Telegram Bot API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With("component", "telegram_client")
	}
}

// NewClient creates a new Telegram client. An empty token yields a
// disabled client whose sends are rejected with ErrMessengerDisabled.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		token:   token,
		logger:  slog.Default().With("component", "telegram_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// sendMessageRequest is the sendMessage request body
type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Enabled reports whether a bot token is configured
func (c *Client) Enabled() bool {
	return c.token != ""
}

// SendMessage posts a Markdown message to a chat. Failures are not retried.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if !c.Enabled() {
		return domain.ErrMessengerDisabled
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := c.baseURL + fmt.Sprintf(sendMessagePath, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("send request failed", "chat_id", chatID, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("unexpected response",
			"chat_id", chatID,
			"status", resp.StatusCode,
			"body", string(respBody))
		return fmt.Errorf("%w: status %d", domain.ErrDeliveryFailed, resp.StatusCode)
	}

	c.logger.Debug("message delivered", "chat_id", chatID)
	return nil
}

// Ensure Client implements Messenger
var _ ports.Messenger = (*Client)(nil)
