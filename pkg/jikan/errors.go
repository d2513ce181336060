package jikan

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/tidwall/gjson"
)

// ParseError builds an HTTPError from a Jikan error response.
//
// Jikan error bodies look like
//
//	{"status":404,"type":"BadResponseException","message":"Resource does not exist","error":"..."}
//
// and validation failures carry a "messages" object keyed by parameter.
func ParseError(status int, header http.Header, body []byte) *retry.HTTPError {
	e := &retry.HTTPError{
		StatusCode: status,
		Status:     http.StatusText(status),
		RetryAfter: retry.ParseRetryAfter(header),
	}

	if len(body) == 0 || !gjson.ValidBytes(body) {
		return e
	}

	parsed := gjson.ParseBytes(body)
	e.Type = parsed.Get("type").String()
	e.Message = parsed.Get("message").String()

	if e.Message == "" {
		if messages := parsed.Get("messages"); messages.IsObject() {
			e.Message = joinMessages(messages)
		}
	}

	return e
}

// joinMessages flattens {"page":["The page must be an integer."]} into one line.
func joinMessages(messages gjson.Result) string {
	var parts []string
	messages.ForEach(func(key, value gjson.Result) bool {
		if value.IsArray() {
			for _, m := range value.Array() {
				parts = append(parts, fmt.Sprintf("%s: %s", key.String(), m.String()))
			}
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", key.String(), value.String()))
		}
		return true
	})
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
