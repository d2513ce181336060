package resource

import (
	"context"
	"errors"

	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var stateEmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jikan_state_emissions_total",
	Help: "Total resource states emitted by kind",
}, []string{"state"})

// Call performs one HTTP request and decodes its body.
// A returned error means the request did not produce a response.
type Call[R any] func(ctx context.Context) (*Response[R], error)

// Flow runs call and streams its states on the returned channel:
//
//	Loading, [Error(retrying), Loading]..., Success | Error
//
// Connectivity failures and 429 responses are retried according to policy.
// The channel is closed after the terminal state, or without one if ctx ends first.
func Flow[R, T any](ctx context.Context, call Call[R], transform func(R) T, policy retry.Policy) <-chan State[T] {
	return start(ctx, call, transform, policy, nil)
}

// Refresh is Flow for data already on screen: every Error state carries stale.
func Refresh[R, T any](ctx context.Context, call Call[R], transform func(R) T, policy retry.Policy, stale T) <-chan State[T] {
	return start(ctx, call, transform, policy, &stale)
}

func start[R, T any](ctx context.Context, call Call[R], transform func(R) T, policy retry.Policy, stale *T) <-chan State[T] {
	out := make(chan State[T])
	go func() {
		defer close(out)
		run(ctx, out, call, transform, policy, stale)
	}()
	return out
}

func run[R, T any](ctx context.Context, out chan<- State[T], call Call[R], transform func(R) T, policy retry.Policy, stale *T) {
	emit := func(s State[T]) bool {
		select {
		case out <- s:
			stateEmissionsTotal.WithLabelValues(s.Kind().String()).Inc()
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(Loading[T]()) {
		return
	}

	for attempt := 0; ; attempt++ {
		resp, err := call(ctx)
		if ctx.Err() != nil {
			return
		}

		var f retry.Failure
		var msg string

		switch {
		case err != nil:
			f = retry.Classify(err)
			if f.Kind == retry.KindCancelled {
				return
			}
			msg = failureMessage(f)
		case resp == nil:
			emit(failed(retry.Failure{Kind: retry.KindMalformed}, MessageEmptyBody, stale, false))
			return
		case !resp.IsSuccessful():
			f = retry.StatusFailure(resp.StatusCode, resp.Header)
			msg = StatusMessage(resp.StatusCode, f.RetryAfter)
		case resp.Body == nil:
			log.Warn().Int("status", resp.StatusCode).Msg("Successful response with null body")
			emit(failed(retry.Failure{Kind: retry.KindMalformed, StatusCode: resp.StatusCode}, MessageEmptyBody, stale, false))
			return
		default:
			emit(Success(transform(*resp.Body)))
			return
		}

		if !policy.ShouldRetry(f, attempt) {
			if policy.IsRetryable(f) {
				retry.RecordExhausted(f)
			}
			log.Debug().
				Str("error_class", string(f.Class())).
				Int("attempt", attempt+1).
				Msg("Request failed terminally")
			emit(failed(f, msg, stale, false))
			return
		}

		delay := policy.DelayFor(f, attempt+1)
		retry.RecordRetry(f, delay)
		log.Debug().
			Str("error_class", string(f.Class())).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying request after backoff")

		if !emit(failed(f, msg, stale, true)) {
			return
		}
		if err := retry.Sleep(ctx, delay); err != nil {
			return
		}
		if !emit(Loading[T]()) {
			return
		}
	}
}

func failureMessage(f retry.Failure) string {
	switch f.Kind {
	case retry.KindHTTP:
		return StatusMessage(f.StatusCode, f.RetryAfter)
	case retry.KindMalformed:
		if errors.Is(f.Err, retry.ErrEmptyBody) {
			return MessageEmptyBody
		}
		return MessageMalformed
	default:
		return NetworkMessage(f.Err)
	}
}

// Collect drains ch and returns every state in order.
func Collect[T any](ch <-chan State[T]) []State[T] {
	var states []State[T]
	for s := range ch {
		states = append(states, s)
	}
	return states
}

// Last drains ch and returns the final state, false if nothing was emitted.
func Last[T any](ch <-chan State[T]) (State[T], bool) {
	var last State[T]
	seen := false
	for s := range ch {
		last = s
		seen = true
	}
	return last, seen
}
