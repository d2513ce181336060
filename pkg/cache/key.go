package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "jikan"

// Key identifies a cached Jikan response.
type Key struct {
	// Endpoint is the request path, e.g. "/v4/anime/1/episodes".
	Endpoint string

	// Query holds the query parameters (page, limit, q, ...).
	Query url.Values
}

// String generates a deterministic key.
//
//	jikan:v4/anime:limit=25:page=2:q=bebop
func (k Key) String() string {
	parts := []string{KeyPrefix}

	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}

// KeyFromURL builds a Key from a request URL.
func KeyFromURL(u *url.URL) Key {
	return Key{Endpoint: u.Path, Query: u.Query()}
}
