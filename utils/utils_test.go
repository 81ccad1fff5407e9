package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invite code tests

func TestGenerateInviteCode_Length(t *testing.T) {
	for _, n := range []int{1, 4, 8} {
		code, err := GenerateInviteCode(n)
		require.NoError(t, err)
		// Hex encoding doubles the byte count.
		assert.Len(t, code, n*2)
	}
}

func TestGenerateInviteCode_UppercaseHex(t *testing.T) {
	code, err := GenerateInviteCode(8)
	require.NoError(t, err)

	for _, r := range code {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestGenerateInviteCode_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode(8)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

// Circuit breaker tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("test")

	assert.Equal(t, "test", cb.name)
	assert.Equal(t, uint32(20), cb.maxRequests)
	assert.Equal(t, 60*time.Second, cb.interval)
	assert.Equal(t, 30*time.Second, cb.timeout)
	assert.Equal(t, 0.5, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.state)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func() (any, error) {
		return "published", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "published", result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	expectedErr := errors.New("publish failed")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestCircuitBreaker_TripsOpenAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	failing := func() (any, error) {
		return nil, errors.New("down")
	}

	// Enough consecutive failures to cross the request floor and ratio.
	for i := 0; i < int(cb.maxRequests); i++ {
		_, _ = cb.Execute(ctx, failing)
	}

	assert.Equal(t, StateOpen, cb.state)

	_, err := cb.Execute(ctx, func() (any, error) {
		t.Fatal("request should not run while the breaker is open")
		return nil, nil
	})
	assert.EqualError(t, err, "circuit breaker is open")
}
