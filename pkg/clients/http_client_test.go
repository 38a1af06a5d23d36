package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/pkg/auth"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
)

func fastConfig() *RestConfig {
	cfg := DefaultRestConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetryDelay = 5 * time.Millisecond
	cfg.RateLimit = 0
	cfg.CircuitBreakerEnabled = false
	return cfg
}

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	client := NewRestClient(srv.URL, fastConfig(),
		&auth.APIKey{Header: "X-Api-Key", Value: "secret"}, zap.NewNop())
	defer client.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), "/things", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewRestClient(srv.URL, fastConfig(), nil, zap.NewNop())
	defer client.Close()

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), "/", nil, &out)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt64(&calls))
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRestClient(srv.URL, fastConfig(), nil, zap.NewNop())
	defer client.Close()

	err := client.GetJSON(context.Background(), "/missing", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestPostJSONNeverRetries(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewRestClient(srv.URL, fastConfig(), nil, zap.NewNop())
	defer client.Close()

	err := client.PostJSON(context.Background(), "/candidates", map[string]string{"a": "b"}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestStatusErrorTyping(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{http.StatusUnauthorized, errors.ErrorTypeAuthentication},
		{http.StatusForbidden, errors.ErrorTypeAuthentication},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusBadRequest, errors.ErrorTypeTransport},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := NewRestClient(srv.URL, fastConfig(), nil, zap.NewNop())
		err := client.PostJSON(context.Background(), "/", nil, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, tt.want), "status %d", tt.status)
		assert.Equal(t, tt.status, errors.HTTPStatus(err))

		client.Close()
		srv.Close()
	}
}

func TestTokenBucketAllowAndRefill(t *testing.T) {
	tb := NewTokenBucketRateLimiter(100, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, tb.Allow())

	stats := tb.GetStats()
	assert.EqualValues(t, 3, stats.AllowedRequests)
	assert.EqualValues(t, 1, stats.BlockedRequests)
}

func TestTokenBucketWaitHonorsContext(t *testing.T) {
	tb := NewTokenBucketRateLimiter(0.1, 1)
	require.NoError(t, tb.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Cooldown:         time.Minute,
	}, zap.NewNop())

	assert.True(t, cb.Allow())
	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}

	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}
