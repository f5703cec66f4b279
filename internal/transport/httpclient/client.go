// Package httpclient is the outbound JSON client shared by the external providers.
// Every call is rate limited, guarded by a circuit breaker and instrumented.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/metrics"
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// Config holds client settings. Zero values get defaults.
type Config struct {
	// Provider names the upstream in metrics and logs.
	Provider string
	Timeout  time.Duration
	// RequestsPerSecond <= 0 disables client-side rate limiting.
	RequestsPerSecond float64
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	Headers     map[string]string
	Logger      *zap.Logger
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Client performs GET requests that decode JSON responses.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	headers  map[string]string
	provider string
	logger   *zap.Logger
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	logger := cfg.Logger.With(zap.String("provider", cfg.Provider))
	threshold := cfg.FailureThreshold

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cfg.Provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Client{
		http:     httpClient,
		limiter:  rate.NewLimiter(limit, 1),
		breaker:  breaker,
		headers:  cfg.Headers,
		provider: cfg.Provider,
		logger:   logger,
	}
}

// GetJSON fetches rawURL and decodes the body into target.
// Failures wrap domain.ErrProviderError; an open breaker yields domain.ErrProviderUnavailable.
func (c *Client) GetJSON(ctx context.Context, rawURL string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", c.provider, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, rawURL)
	})
	metrics.ProviderRequestDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ProviderErrorsTotal.WithLabelValues(c.provider, "circuit_open").Inc()
			return fmt.Errorf("%s: %w: %w", c.provider, domain.ErrProviderUnavailable, err)
		}
		metrics.ProviderErrorsTotal.WithLabelValues(c.provider, errorType(err)).Inc()
		return fmt.Errorf("%s request: %w: %w", c.provider, domain.ErrProviderError, err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		metrics.ProviderErrorsTotal.WithLabelValues(c.provider, "decode").Inc()
		return fmt.Errorf("%s decode: %w: %w", c.provider, domain.ErrProviderError, err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("Provider returned error status",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", snippet))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// State reports the breaker state (closed, half-open, open).
func (c *Client) State() string { return c.breaker.State().String() }

// upstreamHealthy reports whether err leaves the upstream's health unquestioned:
// a caller that gave up, or a 4xx rejecting the request itself. 429 still counts as a failure.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
	}
	return false
}

func errorType(err error) string {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("status_%dxx", se.Code/100)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}
