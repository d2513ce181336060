// Package ratelimit tracks Jikan 429 cooldowns and gates outgoing requests.
// Jikan answers 429 Too Many Requests when a client exceeds its per-second or
// per-minute budget; the tracker records a cooldown window after each 429 and
// holds further requests until it has passed.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyCooldownUntil  = "jikan:rate_limit:cooldown_until"
	RedisKeyConsecutive429 = "jikan:rate_limit:consecutive_429"
	RedisKeyLastUpdate     = "jikan:rate_limit:last_update"
)

// Thresholds for rate limit decisions.
const (
	// ThrottledThresholdCritical blocks requests once this many 429s arrived in a row
	// and the cooldown is still running.
	ThrottledThresholdCritical = 5

	// DefaultCooldown is used when a 429 carries no Retry-After header.
	DefaultCooldown = 1 * time.Second

	// DefaultMaxWait is the longest a request is held before it is rejected.
	DefaultMaxWait = 30 * time.Second
)

// RateLimitState represents the current Jikan rate limit state.
// When Redis is configured this state is shared across all client instances.
type RateLimitState struct {
	// CooldownUntil is when requests may be sent again.
	CooldownUntil time.Time `json:"cooldown_until"`

	// Consecutive429 counts 429 responses since the last successful one.
	Consecutive429 int `json:"consecutive_429"`

	// LastUpdate is the timestamp when this state was last updated.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when no 429 has been seen since the last success.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// InCooldown returns true while the cooldown window is running.
func (s *RateLimitState) InCooldown() bool {
	return time.Now().Before(s.CooldownUntil)
}

// NeedsCriticalBlock returns true if requests should be rejected outright.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.Consecutive429 >= ThrottledThresholdCritical && s.InCooldown()
}

// NeedsThrottling returns true if requests should wait for the cooldown to pass.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.InCooldown() && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the cooldown ends.
// Returns 0 if it has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.CooldownUntil)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on Consecutive429.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.Consecutive429 == 0
}
