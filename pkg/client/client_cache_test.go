package client

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Sternrassler/jikan-client/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to a local Redis and skips when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestDo_FreshCacheHitSkipsNetwork(t *testing.T) {
	redisClient := setupTestRedis(t)
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/v4/anime/1/full", testutil.NewJSONResponse(`{"data":{"mal_id":1}}`))

	c := newTestClient(t, mock, func(cfg *Config) {
		cfg.Redis = redisClient
		cfg.CacheEnabled = true
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := c.Get(ctx, "/anime/1/full", nil)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.JSONEq(t, `{"data":{"mal_id":1}}`, string(body))
	}

	assert.Equal(t, 1, mock.RequestCount())
}

func TestDo_StaleEntryRevalidated(t *testing.T) {
	redisClient := setupTestRedis(t)
	mock := testutil.NewMockJikan()
	defer mock.Close()

	etag := `"v1"`
	mock.SetSequence("/v4/anime/2/full",
		testutil.MockResponse{
			StatusCode: 200,
			Body:       `{"data":{"mal_id":2}}`,
			Headers: map[string]string{
				"ETag":    etag,
				"Expires": time.Now().Add(-time.Second).UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"),
			},
		},
	)

	c := newTestClient(t, mock, func(cfg *Config) {
		cfg.Redis = redisClient
		cfg.CacheEnabled = true
	})
	ctx := context.Background()

	resp, err := c.Get(ctx, "/anime/2/full", nil)
	require.NoError(t, err)
	resp.Body.Close()

	mock.SetHandler("/v4/anime/2/full", testutil.NewConditionalHandler(etag, `{"data":{"mal_id":2}}`))

	resp, err = c.Get(ctx, "/anime/2/full", nil)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"data":{"mal_id":2}}`, string(body))
	assert.Equal(t, 1, mock.ConditionalCount())
}
