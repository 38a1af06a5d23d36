package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrorTypeMapping, "field missing")
	assert.Equal(t, "mapping: field missing", err.Error())

	wrapped := Wrap(fmt.Errorf("boom"), ErrorTypePull, "listing failed")
	assert.Equal(t, "pull: listing failed: boom", wrapped.Error())
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeTransport, "ignored"))
}

func TestWrapPreservesCauseChain(t *testing.T) {
	inner := New(ErrorTypeTransport, "http failed").WithDetail("http_status", 502)
	outer := Wrap(inner, ErrorTypePull, "pull aborted")

	assert.True(t, IsType(outer, ErrorTypePull))
	require.NotNil(t, outer.Unwrap())
	assert.True(t, IsType(outer.Unwrap(), ErrorTypeTransport))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrorTypeRateLimit, "slow down")))
	assert.True(t, IsRetryable(New(ErrorTypeTimeout, "deadline")))
	assert.True(t, IsRetryable(New(ErrorTypeConnection, "refused")))
	assert.False(t, IsRetryable(New(ErrorTypeMapping, "bad field")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestHTTPStatus(t *testing.T) {
	err := New(ErrorTypeTransport, "bad gateway").WithDetail("http_status", 502)
	assert.Equal(t, 502, HTTPStatus(err))

	assert.Equal(t, 0, HTTPStatus(New(ErrorTypeMapping, "no status")))
	assert.Equal(t, 0, HTTPStatus(fmt.Errorf("plain")))
}

func TestDetails(t *testing.T) {
	err := New(ErrorTypePull, "stopped").
		WithDetail("cursor", "page=3").
		WithDetail("vendor", "taleez")

	cursor, ok := err.Detail("cursor")
	require.True(t, ok)
	assert.Equal(t, "page=3", cursor)

	_, ok = err.Detail("absent")
	assert.False(t, ok)
}

func TestStackCaptured(t *testing.T) {
	err := New(ErrorTypeInternal, "oops")
	assert.NotEmpty(t, err.Stack)
}
