package client

import (
	"errors"
)

// Common errors returned by the client.
var (
	// ErrUserAgentRequired is returned by New when no User-Agent is configured.
	ErrUserAgentRequired = errors.New("user-agent is required")

	// ErrInvalidBaseURL is returned by New when the base URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid base url")
)
