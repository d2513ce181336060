package retry

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Kind is the coarse category of an operation failure.
type Kind int

const (
	// KindConnectivity is a transport failure: DNS, refused connection, reset, timeout.
	KindConnectivity Kind = iota

	// KindHTTP is a response with a non-2xx status code.
	KindHTTP

	// KindMalformed is a response that could not be decoded or had no payload.
	KindMalformed

	// KindCancelled means the caller's context ended.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrorClass represents a classification of errors for metrics and logs.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassMalformed represents undecodable or empty successful responses.
	ErrorClassMalformed ErrorClass = "malformed"
)

// Failure is a classified operation failure.
type Failure struct {
	Kind       Kind
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

// Class returns the metrics/log class of the failure.
func (f Failure) Class() ErrorClass {
	switch f.Kind {
	case KindHTTP:
		return ClassForStatus(f.StatusCode)
	case KindMalformed:
		return ErrorClassMalformed
	default:
		return ErrorClassNetwork
	}
}

// ClassForStatus maps an HTTP status code to its error class.
func ClassForStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Classify categorizes err. Anything that is not an HTTP status failure,
// a malformed response or a context cancellation is treated as connectivity.
func Classify(err error) Failure {
	var httpErr *HTTPError
	var malformed *MalformedError
	switch {
	case errors.As(err, &httpErr):
		return Failure{
			Kind:       KindHTTP,
			StatusCode: httpErr.StatusCode,
			RetryAfter: httpErr.RetryAfter,
			Err:        err,
		}
	case errors.As(err, &malformed), errors.Is(err, ErrEmptyBody):
		return Failure{Kind: KindMalformed, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, ErrContextCancelled):
		return Failure{Kind: KindCancelled, Err: err}
	default:
		return Failure{Kind: KindConnectivity, Err: err}
	}
}

// StatusFailure builds a Failure for a response with the given status.
func StatusFailure(status int, header http.Header) Failure {
	return Failure{
		Kind:       KindHTTP,
		StatusCode: status,
		RetryAfter: ParseRetryAfter(header),
		Err:        &HTTPError{StatusCode: status, Status: http.StatusText(status), RetryAfter: ParseRetryAfter(header)},
	}
}
