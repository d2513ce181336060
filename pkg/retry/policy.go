// Package retry classifies Jikan request failures and computes backoff
// delays between attempts.
//
// A transport failure is always retryable. An HTTP failure is retryable only
// when the API answered 429 Too Many Requests. Everything else is terminal.
package retry

import (
	"math"
	"net/http"
	"time"
)

// Policy holds the configuration for retry decisions.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// Factor is the multiplier for exponential backoff.
	Factor float64

	// MaxDelay clamps the computed delay. Zero means uncapped.
	MaxDelay time.Duration

	// HonorRetryAfter raises the delay to the server's Retry-After hint.
	HonorRetryAfter bool
}

// DefaultPolicy returns the default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		InitialDelay:    1 * time.Second,
		Factor:          2.0,
		HonorRetryAfter: true,
	}
}

// Capped returns a copy of p that clamps delays to maxDelay.
func (p Policy) Capped(maxDelay time.Duration) Policy {
	p.MaxDelay = maxDelay
	return p
}

// IsRetryable reports whether the failure class may be retried at all.
func (p Policy) IsRetryable(f Failure) bool {
	switch f.Kind {
	case KindConnectivity:
		return true
	case KindHTTP:
		return f.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// ShouldRetry reports whether another attempt should be made after a failure.
// attempt is the number of retries already made (0 after the first call).
func (p Policy) ShouldRetry(f Failure, attempt int) bool {
	if attempt >= p.MaxRetries {
		return false
	}
	return p.IsRetryable(f)
}

// BackoffDelay returns InitialDelay * Factor^(attempt-1) for a 1-based attempt,
// clamped to MaxDelay when set.
func (p Policy) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}

	delay := float64(p.InitialDelay) * math.Pow(factor, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	if delay > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// DelayFor returns the wait before retry number attempt (1-based) after f.
func (p Policy) DelayFor(f Failure, attempt int) time.Duration {
	delay := p.BackoffDelay(attempt)
	if p.HonorRetryAfter && f.RetryAfter > delay {
		delay = f.RetryAfter
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return delay
}
