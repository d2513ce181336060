// Package resource turns a single Jikan request into an ordered stream of
// Loading, Success and Error states that a screen-level consumer can render.
package resource

import (
	"net/http"

	"github.com/Sternrassler/jikan-client/pkg/retry"
)

// Kind identifies the active variant of a State.
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the result of an operation at a point in time.
// Exactly one variant is active: Loading, Success or Error.
type State[T any] struct {
	kind Kind

	// Data holds the payload on Success, and the stale payload (if any) on Error.
	Data *T

	// Message is the human-readable error text on Error.
	Message string

	// Retrying is true on Error while an automatic retry is scheduled.
	Retrying bool

	// StatusCode is the HTTP status behind an Error, 0 when no response arrived.
	StatusCode int

	// Class is the error class of an Error state.
	Class retry.ErrorClass
}

// Loading returns the Loading state.
func Loading[T any]() State[T] {
	return State[T]{kind: KindLoading}
}

// Success returns the Success state holding v.
func Success[T any](v T) State[T] {
	return State[T]{kind: KindSuccess, Data: &v}
}

// Failure returns an Error state. stale may be nil.
func Failure[T any](message string, stale *T, retrying bool) State[T] {
	return State[T]{kind: KindError, Data: stale, Message: message, Retrying: retrying}
}

// failed returns an Error state recording the cause f.
func failed[T any](f retry.Failure, message string, stale *T, retrying bool) State[T] {
	s := Failure(message, stale, retrying)
	s.StatusCode = f.StatusCode
	s.Class = f.Class()
	return s
}

// Kind returns the active variant.
func (s State[T]) Kind() Kind { return s.kind }

func (s State[T]) IsLoading() bool { return s.kind == KindLoading }
func (s State[T]) IsSuccess() bool { return s.kind == KindSuccess }
func (s State[T]) IsError() bool   { return s.kind == KindError }

// IsTerminal reports whether no further states follow s.
func (s State[T]) IsTerminal() bool {
	return s.kind == KindSuccess || (s.kind == KindError && !s.Retrying)
}

// Value returns the payload and whether one is present.
func (s State[T]) Value() (T, bool) {
	if s.Data == nil {
		var zero T
		return zero, false
	}
	return *s.Data, true
}

// Response is the outcome of a single HTTP call with a decoded body.
type Response[R any] struct {
	StatusCode int
	Header     http.Header

	// Body is nil when the response carried no payload.
	Body *R
}

// IsSuccessful reports whether the status code is 2xx.
func (r *Response[R]) IsSuccessful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
