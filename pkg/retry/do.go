package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jikan_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RecordRetry records a scheduled retry for failure f.
func RecordRetry(f Failure, delay time.Duration) {
	retriesTotal.WithLabelValues(string(f.Class())).Inc()
	retryBackoffSeconds.WithLabelValues(string(f.Class())).Observe(delay.Seconds())
}

// RecordExhausted records a retryable failure that ran out of attempts.
func RecordExhausted(f Failure) {
	retryExhaustedTotal.WithLabelValues(string(f.Class())).Inc()
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Do executes fn until it succeeds, fails terminally, or the policy runs out of retries.
// Terminal failures are returned unwrapped. Exhausted retryable failures are
// wrapped in ErrRetryExhausted.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.Debug().
					Int("attempt", attempt+1).
					Msg("Request succeeded after retry")
			}
			return v, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("%w: %v", ErrContextCancelled, ctxErr)
		}

		f := Classify(err)
		if !p.ShouldRetry(f, attempt) {
			if p.IsRetryable(f) {
				RecordExhausted(f)
				log.Warn().
					Str("error_class", string(f.Class())).
					Int("max_retries", p.MaxRetries).
					Msg("Retry attempts exhausted")
				return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempt+1, err)
			}
			return zero, err
		}

		delay := p.DelayFor(f, attempt+1)
		RecordRetry(f, delay)
		log.Debug().
			Str("error_class", string(f.Class())).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying request after backoff")

		if err := Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}
