// Package testutil provides a mock Jikan server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockJikan is a configurable mock Jikan server.
type MockJikan struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount     int
	conditionalCount int
	pathCounts       map[string]int
	lastHeader       http.Header
}

// NewMockJikan starts a mock server. Handlers are keyed by the full request
// path, e.g. "/v4/top/anime".
func NewMockJikan() *MockJikan {
	mock := &MockJikan{
		handlers:   make(map[string]http.HandlerFunc),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"status":404,"type":"BadResponseException","message":"Resource does not exist","error":"404 on %s"}`, r.URL.Path)
	}))

	return mock
}

// URL returns the server URL including the /v4 base path.
func (m *MockJikan) URL() string {
	return m.server.URL + "/v4"
}

// Close shuts down the mock server.
func (m *MockJikan) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockJikan) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.conditionalCount = 0
	m.pathCounts = make(map[string]int)
	m.lastHeader = nil
}

// SetHandler sets a custom handler for a path.
func (m *MockJikan) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockJikan) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetSequence serves responses in order; the last one repeats.
func (m *MockJikan) SetSequence(path string, responses ...MockResponse) {
	var mu sync.Mutex
	i := 0
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[i]
		if i < len(responses)-1 {
			i++
		}
		mu.Unlock()
		writeResponse(w, resp)
	})
}

// SetPaged serves pages of items for path. Items are raw JSON objects;
// page and limit come from the query string. The pagination object follows
// the Jikan format.
func (m *MockJikan) SetPaged(path string, items []string, perPage int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit := perPage
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
			limit = l
		}
		writeResponse(w, MockResponse{
			StatusCode: http.StatusOK,
			Body:       PagedBody(items, page, limit),
			Headers:    map[string]string{"Content-Type": "application/json"},
		})
	})
}

// RequestCount returns the number of requests made to the server.
func (m *MockJikan) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests made to path.
func (m *MockJikan) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// ConditionalCount returns the number of conditional requests.
func (m *MockJikan) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// LastHeader returns the headers of the most recent request.
func (m *MockJikan) LastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// PagedBody renders one page of items in the Jikan list envelope.
func PagedBody(items []string, page, limit int) string {
	total := len(items)
	lastPage := (total + limit - 1) / limit
	if lastPage == 0 {
		lastPage = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := make([]json.RawMessage, 0, end-start)
	for _, item := range items[start:end] {
		data = append(data, json.RawMessage(item))
	}

	body, _ := json.Marshal(map[string]any{
		"pagination": map[string]any{
			"last_visible_page": lastPage,
			"has_next_page":     page < lastPage,
			"current_page":      page,
			"items": map[string]int{
				"count":    len(data),
				"total":    total,
				"per_page": limit,
			},
		},
		"data": data,
	})
	return string(body)
}

// AnimeJSON renders a minimal anime object.
func AnimeJSON(id int, title string) string {
	return fmt.Sprintf(`{"mal_id":%d,"url":"https://myanimelist.net/anime/%d","title":%q,"type":"TV","episodes":26,"score":8.5,"images":{"jpg":{"image_url":"https://cdn.myanimelist.net/images/anime/%d.jpg","large_image_url":"https://cdn.myanimelist.net/images/anime/%dl.jpg"}},"genres":[{"mal_id":1,"type":"anime","name":"Action"}],"studios":[{"mal_id":14,"type":"anime","name":"Sunrise"}]}`,
		id, id, title, id, id)
}

// NewJSONResponse creates a 200 OK response with caching headers.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"ETag":         `"test-etag-123"`,
			"Expires":      time.Now().Add(5 * time.Minute).UTC().Format(http.TimeFormat),
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfter int) MockResponse {
	resp := MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"status":429,"type":"RateLimitException","message":"You are being rate limited by Jikan. Please follow the rate limiting guidelines.","error":null}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
	if retryAfter > 0 {
		resp.Headers["Retry-After"] = strconv.Itoa(retryAfter)
	}
	return resp
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"status":404,"type":"BadResponseException","message":"Resource does not exist","error":"404 on https://myanimelist.net/anime/0/"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"status":500,"type":"InternalException","message":"Something went wrong","error":null}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewConditionalHandler responds 304 when If-None-Match matches etag.
func NewConditionalHandler(etag string, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).UTC().Format(http.TimeFormat))

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
