// Package jikan is the data layer for the Jikan v4 REST API: wire DTOs,
// endpoint calls and page fetchers.
//
// Endpoint methods return a resource.Response so callers can feed them to
// resource.Flow. Non-2xx responses are returned with an empty Body rather
// than as errors; transport failures are returned as errors and JSON that
// cannot be decoded as a *retry.MalformedError.
package jikan
