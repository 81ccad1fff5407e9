package security

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow_WithinLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	limiter := NewRateLimiter(db, 30)

	mock.ExpectIncr("ratelimit:rsvp:user:user-a").SetVal(1)
	mock.ExpectExpire("ratelimit:rsvp:user:user-a", time.Minute).SetVal(true)

	allowed, err := limiter.Allow(context.Background(), "rsvp", "user:user-a")

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Allow_OverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	limiter := NewRateLimiter(db, 30)

	mock.ExpectIncr("ratelimit:rsvp:user:user-a").SetVal(31)

	allowed, err := limiter.Allow(context.Background(), "rsvp", "user:user-a")

	require.NoError(t, err)
	assert.False(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Allow_RedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	limiter := NewRateLimiter(db, 30)

	mock.ExpectIncr("ratelimit:rsvp:ip:10.0.0.1").SetErr(assert.AnError)

	// A broken limiter fails open.
	allowed, err := limiter.Allow(context.Background(), "rsvp", "ip:10.0.0.1")

	assert.Error(t, err)
	assert.True(t, allowed)
}
