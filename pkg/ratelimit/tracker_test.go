package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalTracker(cfg Config) *Tracker {
	return NewTracker(nil, cfg, zerolog.Nop())
}

func TestNewTracker_Defaults(t *testing.T) {
	tr := newLocalTracker(Config{})

	assert.Equal(t, DefaultCooldown, tr.config.DefaultCooldown)
	assert.Equal(t, DefaultMaxWait, tr.config.MaxWait)

	state, err := tr.GetState(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsHealthy, "fresh tracker should be healthy")
}

func TestUpdateFromResponse_429StartsCooldown(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: 50 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, http.Header{}))

	state, err := tr.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Consecutive429)
	assert.True(t, state.InCooldown(), "expected cooldown after 429")
	assert.False(t, state.IsHealthy, "expected unhealthy state after 429")
}

func TestUpdateFromResponse_RetryAfterHeader(t *testing.T) {
	tr := newLocalTracker(Config{})
	ctx := context.Background()

	headers := http.Header{}
	headers.Set("Retry-After", "5")
	require.NoError(t, tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, headers))

	state, err := tr.GetState(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, state.TimeUntilReset(), 4*time.Second)
}

func TestUpdateFromResponse_SuccessResetsStreak(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: time.Millisecond})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, http.Header{})
	}
	state, err := tr.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, state.Consecutive429)

	require.NoError(t, tr.UpdateFromResponse(ctx, http.StatusOK, http.Header{}))
	state, err = tr.GetState(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.Consecutive429)
	assert.True(t, state.IsHealthy)
}

func TestShouldAllowRequest_Healthy(t *testing.T) {
	tr := newLocalTracker(Config{})

	allowed, err := tr.ShouldAllowRequest(context.Background())
	require.NoError(t, err)
	assert.True(t, allowed, "healthy tracker should allow requests")
}

func TestShouldAllowRequest_WaitsForCooldown(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: 40 * time.Millisecond})
	ctx := context.Background()
	_ = tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, http.Header{})

	start := time.Now()
	allowed, err := tr.ShouldAllowRequest(ctx)
	require.NoError(t, err)
	assert.True(t, allowed, "request should be allowed after cooldown wait")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond, "expected to wait for cooldown")
}

func TestShouldAllowRequest_BlocksBeyondMaxWait(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: time.Minute, MaxWait: 10 * time.Millisecond})
	ctx := context.Background()
	_ = tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, http.Header{})

	allowed, err := tr.ShouldAllowRequest(ctx)
	require.NoError(t, err)
	assert.False(t, allowed, "request should be blocked when cooldown exceeds max wait")
}

func TestShouldAllowRequest_BlocksWhenCritical(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: time.Minute, MaxWait: time.Hour})
	ctx := context.Background()
	for i := 0; i < ThrottledThresholdCritical; i++ {
		_ = tr.UpdateFromResponse(ctx, http.StatusTooManyRequests, http.Header{})
	}

	allowed, err := tr.ShouldAllowRequest(ctx)
	require.NoError(t, err)
	assert.False(t, allowed, "critical state should block requests")
}

func TestShouldAllowRequest_ContextCancelled(t *testing.T) {
	tr := newLocalTracker(Config{DefaultCooldown: 10 * time.Second})
	_ = tr.UpdateFromResponse(context.Background(), http.StatusTooManyRequests, http.Header{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	allowed, err := tr.ShouldAllowRequest(ctx)
	assert.Error(t, err, "expected error when context ends during cooldown wait")
	assert.False(t, allowed)
}
