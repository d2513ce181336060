package retry

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Common errors returned by the retry loop.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during a backoff wait.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrEmptyBody is returned when a successful response carried no payload.
	ErrEmptyBody = errors.New("successful response with null body")
)

// HTTPError is a non-2xx response from the Jikan API.
type HTTPError struct {
	StatusCode int
	Status     string

	// Message and Type come from the Jikan error body when present.
	Message string
	Type    string

	// RetryAfter is the server-provided wait hint (Retry-After header), zero if absent.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("jikan %s error (status %d): %s: %s",
			ClassForStatus(e.StatusCode), e.StatusCode, e.Type, msg)
	}
	return fmt.Sprintf("jikan %s error (status %d): %s",
		ClassForStatus(e.StatusCode), e.StatusCode, msg)
}

// MalformedError marks a response that arrived but could not be used.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter reads a Retry-After header value, either delta-seconds or an HTTP date.
// Returns zero when absent or unparseable.
func ParseRetryAfter(header http.Header) time.Duration {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
