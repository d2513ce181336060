package cache

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseToEntry(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Expires":       {expires.Format(http.TimeFormat)},
			"Last-Modified": {time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)},
			"Etag":          {`"5f6b"`},
		},
		Body: io.NopCloser(bytes.NewReader([]byte(`{"data":{"mal_id":1}}`))),
	}

	entry, err := ResponseToEntry(resp, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, `{"data":{"mal_id":1}}`, string(entry.Data))
	assert.Equal(t, `"5f6b"`, entry.ETag)
	assert.True(t, entry.Expires.Equal(expires), "Expires = %v, want %v", entry.Expires, expires)
	assert.False(t, entry.LastModified.IsZero(), "LastModified not parsed")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"mal_id":1}}`, string(body), "response body not restored")
}

func TestResponseToEntry_FallbackTTL(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}

	entry, err := ResponseToEntry(resp, 10*time.Minute)
	require.NoError(t, err)
	assert.InDelta(t, float64(10*time.Minute), float64(entry.TTL()), float64(time.Minute))
}

func TestResponseToEntry_Nil(t *testing.T) {
	_, err := ResponseToEntry(nil, 0)
	assert.Error(t, err)
}

func TestEntryToResponse(t *testing.T) {
	entry := &Entry{
		Data:       []byte(`{"data":[]}`),
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": {"application/json"}},
	}

	resp := EntryToResponse(entry, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(body))
	assert.Empty(t, entry.Headers.Get("X-Cache"), "EntryToResponse mutated the entry headers")
}

func TestConditionalHeaders(t *testing.T) {
	tests := []struct {
		name       string
		entry      *Entry
		shouldMake bool
		header     string
	}{
		{"nil entry", nil, false, ""},
		{"no validators", &Entry{}, false, ""},
		{"etag", &Entry{ETag: `"abc"`}, true, "If-None-Match"},
		{"last modified", &Entry{LastModified: time.Now().Add(-time.Hour)}, true, "If-Modified-Since"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shouldMake, ShouldMakeConditionalRequest(tt.entry))

			req, err := http.NewRequest(http.MethodGet, "https://api.jikan.moe/v4/anime/1", nil)
			require.NoError(t, err)
			AddConditionalHeaders(req, tt.entry)

			if tt.header != "" {
				assert.NotEmpty(t, req.Header.Get(tt.header))
				return
			}
			assert.Empty(t, req.Header.Get("If-None-Match"))
			assert.Empty(t, req.Header.Get("If-Modified-Since"))
		})
	}
}
