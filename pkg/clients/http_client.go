package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/yass1337/hrflow-connectors/pkg/auth"
	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/metrics"
)

// RestConfig configures the vendor REST client.
type RestConfig struct {
	// Timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	DialTimeout     time.Duration `json:"dial_timeout"`
	IdleConnTimeout time.Duration `json:"idle_conn_timeout"`

	// Connection settings
	MaxIdleConnsPerHost int  `json:"max_idle_conns_per_host"`
	EnableHTTP2         bool `json:"enable_http2"`

	// Retry policy for idempotent requests
	RetryAttempts   int           `json:"retry_attempts"`
	RetryDelay      time.Duration `json:"retry_delay"`
	RetryMultiplier float64       `json:"retry_multiplier"`
	MaxRetryDelay   time.Duration `json:"max_retry_delay"`

	// Rate limiting (0 = unlimited)
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	// Circuit breaker
	CircuitBreakerEnabled bool `json:"circuit_breaker_enabled"`
}

// DefaultRestConfig returns production defaults.
func DefaultRestConfig() *RestConfig {
	return &RestConfig{
		RequestTimeout:        30 * time.Second,
		DialTimeout:           10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   10,
		EnableHTTP2:           true,
		RetryAttempts:         3,
		RetryDelay:            500 * time.Millisecond,
		RetryMultiplier:       2.0,
		MaxRetryDelay:         5 * time.Second,
		RateLimit:             10,
		RateBurst:             5,
		CircuitBreakerEnabled: true,
	}
}

// RestConfigFromConnector maps a connector configuration onto transport
// settings, keeping defaults for anything unset.
func RestConfigFromConnector(cfg *config.Config) *RestConfig {
	rc := DefaultRestConfig()
	if cfg.Timeouts.Request > 0 {
		rc.RequestTimeout = cfg.Timeouts.Request
	}
	if cfg.Timeouts.Connection > 0 {
		rc.DialTimeout = cfg.Timeouts.Connection
	}
	if cfg.Timeouts.Idle > 0 {
		rc.IdleConnTimeout = cfg.Timeouts.Idle
	}
	if cfg.Reliability.RetryAttempts > 0 {
		rc.RetryAttempts = cfg.Reliability.RetryAttempts
	}
	if cfg.Reliability.RetryDelay > 0 {
		rc.RetryDelay = cfg.Reliability.RetryDelay
	}
	if cfg.Reliability.RetryMultiplier >= 1 {
		rc.RetryMultiplier = cfg.Reliability.RetryMultiplier
	}
	if cfg.Reliability.MaxRetryDelay > 0 {
		rc.MaxRetryDelay = cfg.Reliability.MaxRetryDelay
	}
	rc.RateLimit = float64(cfg.Reliability.RateLimitPerSec)
	rc.CircuitBreakerEnabled = cfg.Reliability.CircuitBreaker
	return rc
}

// RestClient performs authenticated JSON requests against one vendor API.
// GETs are retried with exponential backoff on retryable failures; writes
// are never retried, the bulk layer owns write failure handling.
type RestClient struct {
	baseURL    string
	config     *RestConfig
	logger     *zap.Logger
	httpClient *http.Client
	transport  *http.Transport
	creds      auth.Credentials

	rateLimiter RateLimiter
	breaker     *CircuitBreaker

	totalRequests  int64
	failedRequests int64
}

// NewRestClient creates a REST client for the given vendor base URL.
func NewRestClient(baseURL string, cfg *RestConfig, creds auth.Credentials, logger *zap.Logger) *RestClient {
	if cfg == nil {
		cfg = DefaultRestConfig()
	}
	if creds == nil {
		creds = auth.None{}
	}

	client := &RestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		config:  cfg,
		logger:  logger.With(zap.String("component", "rest_client")),
		creds:   creds,
	}

	client.transport = &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(client.transport); err != nil {
			client.logger.Warn("failed to configure HTTP/2", zap.Error(err))
		}
	}

	client.httpClient = &http.Client{
		Transport: client.transport,
		Timeout:   cfg.RequestTimeout,
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		client.rateLimiter = NewTokenBucketRateLimiter(cfg.RateLimit, burst)
	}

	if cfg.CircuitBreakerEnabled {
		client.breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig(), logger)
	}

	return client
}

// GetJSON performs a GET against path with the given query parameters and
// decodes the JSON response into out. Retryable failures are retried with
// exponential backoff.
func (c *RestClient) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	delay := c.config.RetryDelay

	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "aborted while waiting to retry")
			}
			delay = time.Duration(float64(delay) * c.config.RetryMultiplier)
			if delay > c.config.MaxRetryDelay {
				delay = c.config.MaxRetryDelay
			}
			c.logger.Debug("retrying request",
				zap.String("url", u),
				zap.Int("attempt", attempt))
		}

		err := c.doJSON(ctx, http.MethodGet, u, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// PostJSON performs a POST with a JSON payload and decodes the response into
// out when out is non-nil. Never retried.
func (c *RestClient) PostJSON(ctx context.Context, path string, payload, out interface{}) error {
	return c.writeJSON(ctx, http.MethodPost, path, payload, out)
}

// PutJSON performs a PUT with a JSON payload and decodes the response into
// out when out is non-nil. Never retried.
func (c *RestClient) PutJSON(ctx context.Context, path string, payload, out interface{}) error {
	return c.writeJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *RestClient) writeJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode request payload")
		}
	}
	return c.doJSON(ctx, method, c.baseURL+path, body, out)
}

func (c *RestClient) doJSON(ctx context.Context, method, u string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.creds.Apply(req); err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(req, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeTransport, "failed to decode response body").
			WithDetail("url", u).
			WithDetail("http_status", resp.StatusCode)
	}
	return nil
}

// do performs one request through the rate limiter and circuit breaker.
func (c *RestClient) do(req *http.Request) (*http.Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			atomic.AddInt64(&c.failedRequests, 1)
			return nil, errors.Wrap(err, errors.ErrorTypeRateLimit, "rate limit wait aborted")
		}
	}

	if c.breaker != nil && !c.breaker.Allow() {
		atomic.AddInt64(&c.failedRequests, 1)
		return nil, errors.New(errors.ErrorTypeConnection, "circuit breaker open").
			WithDetail("host", req.URL.Host)
	}

	atomic.AddInt64(&c.totalRequests, 1)
	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.RecordHTTPRequest(req.Method, req.URL.Host, status, duration)

	if err != nil {
		atomic.AddInt64(&c.failedRequests, 1)
		if c.breaker != nil {
			c.breaker.RecordFailure()
		}
		return nil, c.classify(err, req)
	}

	if c.breaker != nil {
		if resp.StatusCode >= 500 {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return resp, nil
}

// classify turns a transport-level error into a typed error.
func (c *RestClient) classify(err error, req *http.Request) error {
	msg := "request failed"
	errType := errors.ErrorTypeConnection

	if req.Context().Err() == context.DeadlineExceeded ||
		strings.Contains(err.Error(), "Client.Timeout") {
		errType = errors.ErrorTypeTimeout
		msg = "request timed out"
	} else if req.Context().Err() == context.Canceled {
		errType = errors.ErrorTypeTimeout
		msg = "request canceled"
	}

	return errors.Wrap(err, errType, msg).
		WithDetail("method", req.Method).
		WithDetail("url", req.URL.String())
}

// statusError builds a typed error for a non-2xx response, capturing status
// and a bounded slice of the body.
func (c *RestClient) statusError(req *http.Request, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	errType := errors.ErrorTypeTransport
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		errType = errors.ErrorTypeAuthentication
	case resp.StatusCode == http.StatusTooManyRequests:
		errType = errors.ErrorTypeRateLimit
	case resp.StatusCode >= 500:
		errType = errors.ErrorTypeConnection
	}

	c.logger.Warn("vendor returned error status",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode))

	return errors.New(errType, "vendor returned "+resp.Status).
		WithDetail("method", req.Method).
		WithDetail("url", req.URL.String()).
		WithDetail("http_status", resp.StatusCode).
		WithDetail("body", string(raw))
}

// Stats returns request counters for monitoring.
func (c *RestClient) Stats() (total, failed int64) {
	return atomic.LoadInt64(&c.totalRequests), atomic.LoadInt64(&c.failedRequests)
}

// Close releases idle connections.
func (c *RestClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
