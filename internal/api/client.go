// Package api implements the HTTP client for the question-answering webhook.
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
)

// Doer is the part of tls_client.HttpClient the webhook client relies on
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookClientInterface is implemented by WebhookClient and MockWebhookClient
type WebhookClientInterface interface {
	Ask(ctx context.Context, question string) (string, error)
	Endpoint() string
	Close()
	IsClosed() bool
}

// WebhookClient posts questions to the configured webhook
type WebhookClient struct {
	httpClient   Doer
	endpoint     string
	timeout      time.Duration
	strictStatus bool
	logger       zerolog.Logger
	mu           sync.RWMutex
	closed       bool
}

// ClientOption is a function that configures the client
type ClientOption func(*WebhookClient)

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *WebhookClient) {
		c.httpClient = doer
	}
}

// WithTimeout bounds each Ask call. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *WebhookClient) {
		c.timeout = timeout
	}
}

// WithStrictStatus makes non-2xx responses fail instead of being shown as answers
func WithStrictStatus(strict bool) ClientOption {
	return func(c *WebhookClient) {
		c.strictStatus = strict
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *WebhookClient) {
		c.logger = logger
	}
}

// NewClient creates a new WebhookClient for endpoint
func NewClient(endpoint string, opts ...ClientOption) (*WebhookClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("webhook endpoint cannot be empty")
	}

	client := &WebhookClient{
		endpoint: endpoint,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Timeouts are enforced per request through the context, so the
		// transport itself never gives up on a slow webhook.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(newTLSLogger(client.logger), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the webhook URL this client posts to
func (c *WebhookClient) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request bound, zero when disabled
func (c *WebhookClient) Timeout() time.Duration {
	return c.timeout
}

// StrictStatus reports whether non-2xx responses are treated as failures
func (c *WebhookClient) StrictStatus() bool {
	return c.strictStatus
}

// Close marks the client closed and drops idle connections
func (c *WebhookClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *WebhookClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// tlsLogger forwards tls-client diagnostics to zerolog
type tlsLogger struct {
	logger zerolog.Logger
}

func newTLSLogger(logger zerolog.Logger) tls_client.Logger {
	return tlsLogger{logger: logger.With().Str("component", "tls-client").Logger()}
}

func (l tlsLogger) Debug(format string, args ...any) { l.logger.Debug().Msgf(format, args...) }
func (l tlsLogger) Info(format string, args ...any)  { l.logger.Info().Msgf(format, args...) }
func (l tlsLogger) Warn(format string, args ...any)  { l.logger.Warn().Msgf(format, args...) }
func (l tlsLogger) Error(format string, args ...any) { l.logger.Error().Msgf(format, args...) }
