package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    *RateLimitState
		maxAge   time.Duration
		expected bool
	}{
		{
			name:     "fresh state",
			state:    &RateLimitState{LastUpdate: time.Now()},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name:     "stale state",
			state:    &RateLimitState{LastUpdate: time.Now().Add(-10 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.IsStale(tt.maxAge))
		})
	}
}

func TestRateLimitState_NeedsCriticalBlock(t *testing.T) {
	future := time.Now().Add(time.Minute)
	past := time.Now().Add(-time.Minute)

	tests := []struct {
		name           string
		consecutive429 int
		cooldownUntil  time.Time
		expected       bool
	}{
		{"no 429s", 0, time.Time{}, false},
		{"below threshold in cooldown", ThrottledThresholdCritical - 1, future, false},
		{"at threshold in cooldown", ThrottledThresholdCritical, future, true},
		{"at threshold cooldown passed", ThrottledThresholdCritical, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &RateLimitState{
				Consecutive429: tt.consecutive429,
				CooldownUntil:  tt.cooldownUntil,
			}
			assert.Equal(t, tt.expected, state.NeedsCriticalBlock(), "consecutive_429=%d", tt.consecutive429)
		})
	}
}

func TestRateLimitState_NeedsThrottling(t *testing.T) {
	state := &RateLimitState{Consecutive429: 1, CooldownUntil: time.Now().Add(time.Second)}
	assert.True(t, state.NeedsThrottling(), "during cooldown")

	state.Consecutive429 = ThrottledThresholdCritical
	assert.False(t, state.NeedsThrottling(), "critical state")

	state = &RateLimitState{Consecutive429: 2, CooldownUntil: time.Now().Add(-time.Second)}
	assert.False(t, state.NeedsThrottling(), "after cooldown")
}

func TestRateLimitState_TimeUntilReset(t *testing.T) {
	state := &RateLimitState{CooldownUntil: time.Now().Add(-time.Second)}
	assert.Zero(t, state.TimeUntilReset())

	state.CooldownUntil = time.Now().Add(10 * time.Second)
	assert.InDelta(t, float64(10*time.Second), float64(state.TimeUntilReset()), float64(time.Second))
}

func TestRateLimitState_UpdateHealth(t *testing.T) {
	state := &RateLimitState{}
	state.UpdateHealth()
	assert.True(t, state.IsHealthy, "no 429s")

	state.Consecutive429 = 1
	state.UpdateHealth()
	assert.False(t, state.IsHealthy, "after a 429")
}
