package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientConfig configures the HTTP backend client.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// DefaultClientConfig returns sensible defaults for the given endpoint.
func DefaultClientConfig(endpoint string) ClientConfig {
	return ClientConfig{
		Endpoint: endpoint,
		Timeout:  2 * time.Minute, // generation can take a while; no retry either way
	}
}

// Client posts selections to the remote generation endpoint. One request at a
// time by construction: the UI disables the submit control while a request is
// outstanding, and the CLI is sequential.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client for the given endpoint.
func NewClient(endpoint string) *Client {
	return NewClientWithConfig(DefaultClientConfig(endpoint))
}

// NewClientWithConfig creates a backend client with custom config.
func NewClientWithConfig(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Generate posts the request and returns the raw response body. Non-200
// statuses are a uniform transport failure regardless of body content, and
// nothing is retried.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("generation endpoint not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	reqID := uuid.NewString()
	c.logger.Info("submitting selection",
		zap.String("request_id", reqID),
		zap.String("brand", req.Brand),
		zap.Int("models", len(req.Models)),
		zap.Int("features", len(req.Features)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("generation request failed", zap.String("request_id", reqID), zap.Error(err))
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("generation request rejected",
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	c.logger.Info("generation response received",
		zap.String("request_id", reqID),
		zap.Int("bytes", len(raw)),
	)
	return string(raw), nil
}
