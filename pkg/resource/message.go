package resource

import (
	"fmt"
	"net/http"
	"time"
)

// User-facing error messages.
const (
	MessageNotFound    = "The requested anime could not be found."
	MessageRateLimited = "Too many requests. Please wait a moment and try again."
	MessageServer      = "The server is having trouble right now. Please try again later."
	MessageEmptyBody   = "Successful response with null body."
	MessageMalformed   = "Received an unexpected response format."
)

// StatusMessage builds the message shown for a non-2xx status.
func StatusMessage(status int, retryAfter time.Duration) string {
	switch {
	case status == http.StatusNotFound:
		return MessageNotFound
	case status == http.StatusTooManyRequests:
		if retryAfter > 0 {
			return fmt.Sprintf("%s (retry after %ds)", MessageRateLimited, int(retryAfter.Round(time.Second).Seconds()))
		}
		return MessageRateLimited
	case status >= 400 && status < 500:
		return fmt.Sprintf("Request failed (HTTP %d). Please check your input.", status)
	case status >= 500 && status < 600:
		return MessageServer
	default:
		return fmt.Sprintf("Unexpected error (HTTP %d).", status)
	}
}

// NetworkMessage builds the message shown for a transport failure.
func NetworkMessage(err error) string {
	return fmt.Sprintf("Network error: %v. Check your connection.", err)
}
