package retry

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 1*time.Second, p.InitialDelay)
	assert.Equal(t, 2.0, p.Factor)
	assert.Zero(t, p.MaxDelay)
	assert.True(t, p.HonorRetryAfter)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		status     int
		class      ErrorClass
		retryAfter time.Duration
	}{
		{
			name:  "eof is connectivity",
			err:   io.EOF,
			kind:  KindConnectivity,
			class: ErrorClassNetwork,
		},
		{
			name:  "url error is connectivity",
			err:   &url.Error{Op: "Get", URL: "https://api.jikan.moe/v4/top/anime", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
			kind:  KindConnectivity,
			class: ErrorClassNetwork,
		},
		{
			name:       "429 keeps retry-after hint",
			err:        &HTTPError{StatusCode: 429, RetryAfter: 2 * time.Second},
			kind:       KindHTTP,
			status:     429,
			class:      ErrorClassRateLimit,
			retryAfter: 2 * time.Second,
		},
		{
			name:   "wrapped 404",
			err:    fmt.Errorf("fetch page 3: %w", &HTTPError{StatusCode: 404}),
			kind:   KindHTTP,
			status: 404,
			class:  ErrorClassClient,
		},
		{
			name:   "503",
			err:    &HTTPError{StatusCode: 503},
			kind:   KindHTTP,
			status: 503,
			class:  ErrorClassServer,
		},
		{
			name:  "decode failure is malformed",
			err:   &MalformedError{Err: errors.New("unexpected EOF")},
			kind:  KindMalformed,
			class: ErrorClassMalformed,
		},
		{
			name:  "empty body is malformed",
			err:   ErrEmptyBody,
			kind:  KindMalformed,
			class: ErrorClassMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Classify(tt.err)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.status, f.StatusCode)
			assert.Equal(t, tt.class, f.Class())
			assert.Equal(t, tt.retryAfter, f.RetryAfter)
		})
	}
}

func TestShouldRetry_Connectivity(t *testing.T) {
	p := DefaultPolicy()
	f := Classify(io.ErrUnexpectedEOF)

	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		assert.True(t, p.ShouldRetry(f, attempt), "attempt %d", attempt)
	}
	assert.False(t, p.ShouldRetry(f, p.MaxRetries))
	assert.False(t, p.ShouldRetry(f, p.MaxRetries+5))
}

func TestShouldRetry_HTTPStatus(t *testing.T) {
	p := DefaultPolicy()
	p.MaxRetries = 10

	for _, status := range []int{400, 401, 403, 404, 408, 418, 500, 502, 503, 504} {
		f := Failure{Kind: KindHTTP, StatusCode: status}
		for attempt := 0; attempt <= p.MaxRetries; attempt++ {
			assert.False(t, p.ShouldRetry(f, attempt), "status %d attempt %d", status, attempt)
		}
	}

	rateLimited := Failure{Kind: KindHTTP, StatusCode: http.StatusTooManyRequests}
	assert.True(t, p.ShouldRetry(rateLimited, 0))
	assert.True(t, p.ShouldRetry(rateLimited, p.MaxRetries-1))
	assert.False(t, p.ShouldRetry(rateLimited, p.MaxRetries))
}

func TestShouldRetry_TerminalKinds(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.ShouldRetry(Failure{Kind: KindMalformed}, 0))
	assert.False(t, p.ShouldRetry(Failure{Kind: KindCancelled}, 0))
}

func TestBackoffDelay(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, Factor: 2.0}

	assert.Equal(t, 100*time.Millisecond, p.BackoffDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.BackoffDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.BackoffDelay(3))
	assert.Equal(t, 800*time.Millisecond, p.BackoffDelay(4))

	prev := time.Duration(0)
	for attempt := 1; attempt <= 10; attempt++ {
		d := p.BackoffDelay(attempt)
		require.Greater(t, d, prev, "delay must grow at attempt %d", attempt)
		prev = d
	}
}

func TestBackoffDelay_FractionalFactor(t *testing.T) {
	p := Policy{InitialDelay: time.Second, Factor: 1.5}

	assert.Equal(t, time.Second, p.BackoffDelay(1))
	assert.Equal(t, 1500*time.Millisecond, p.BackoffDelay(2))
	assert.Equal(t, 2250*time.Millisecond, p.BackoffDelay(3))
}

func TestBackoffDelay_Capped(t *testing.T) {
	p := Policy{InitialDelay: time.Second, Factor: 2.0}.Capped(5 * time.Second)

	assert.Equal(t, 1*time.Second, p.BackoffDelay(1))
	assert.Equal(t, 4*time.Second, p.BackoffDelay(3))
	assert.Equal(t, 5*time.Second, p.BackoffDelay(4))
	assert.Equal(t, 5*time.Second, p.BackoffDelay(20))
}

func TestDelayFor_RetryAfter(t *testing.T) {
	p := Policy{InitialDelay: time.Second, Factor: 2.0, HonorRetryAfter: true}
	f := Failure{Kind: KindHTTP, StatusCode: 429, RetryAfter: 7 * time.Second}

	assert.Equal(t, 7*time.Second, p.DelayFor(f, 1))
	assert.Equal(t, 8*time.Second, p.DelayFor(f, 4), "backoff larger than hint wins")

	p.HonorRetryAfter = false
	assert.Equal(t, time.Second, p.DelayFor(f, 1))

	capped := Policy{InitialDelay: time.Second, Factor: 2.0, HonorRetryAfter: true, MaxDelay: 3 * time.Second}
	assert.Equal(t, 3*time.Second, capped.DelayFor(f, 1))
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, ParseRetryAfter(h))

	h.Set("Retry-After", "4")
	assert.Equal(t, 4*time.Second, ParseRetryAfter(h))

	h.Set("Retry-After", "soon")
	assert.Zero(t, ParseRetryAfter(h))

	h.Set("Retry-After", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	assert.Greater(t, ParseRetryAfter(h), 59*time.Minute)
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Type: "BadResponseException", Message: "Resource does not exist"}
	assert.Equal(t, "jikan client error (status 404): BadResponseException: Resource does not exist", err.Error())

	err = &HTTPError{StatusCode: 503}
	assert.Equal(t, "jikan server error (status 503): Service Unavailable", err.Error())
}

func TestClassForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{http.StatusOK, ""},
		{http.StatusBadRequest, ErrorClassClient},
		{http.StatusNotFound, ErrorClassClient},
		{http.StatusTooManyRequests, ErrorClassRateLimit},
		{http.StatusInternalServerError, ErrorClassServer},
		{http.StatusServiceUnavailable, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassForStatus(tt.status))
		})
	}
}

func TestFailure_Class(t *testing.T) {
	assert.Equal(t, ErrorClassRateLimit, Classify(&HTTPError{StatusCode: 429}).Class())
	assert.Equal(t, ErrorClassMalformed, Classify(ErrEmptyBody).Class())
	assert.Equal(t, ErrorClassNetwork, Classify(io.ErrUnexpectedEOF).Class())
}
