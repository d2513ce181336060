package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sternrassler/jikan-client/internal/testutil"
	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestRedis starts a Redis container and skips when Docker is unavailable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Redis container not available: %v", err)
	}
	t.Cleanup(func() { redisC.Terminate(context.Background()) })

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
}

func newTestServer(t *testing.T, mock *testutil.MockJikan, redisClient *redis.Client) http.Handler {
	t.Helper()

	cfg := client.DefaultConfig(redisClient, "anime-proxy-test/1.0")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	policy := retry.Policy{MaxRetries: 1, InitialDelay: time.Millisecond, Factor: 2}
	repo := anime.NewRepository(jikan.NewAPI(c), policy, pagination.DefaultConfig())
	return newServer(repo, redisClient, 10, 5*time.Second).routes()
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w.Result()
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestReadyEndpoint_WithoutRedis(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()

	resp := get(t, newTestServer(t, mock, nil), "/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyEndpoint(t *testing.T) {
	redisClient := setupTestRedis(t)
	mock := testutil.NewMockJikan()
	defer mock.Close()
	h := newTestServer(t, mock, redisClient)

	t.Run("ready", func(t *testing.T) {
		resp := get(t, h, "/ready")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		redisClient.Close()
		resp := get(t, h, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestTopEndpoint(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetPaged("/v4/top/anime", []string{
		testutil.AnimeJSON(1, "Fullmetal Alchemist: Brotherhood"),
		testutil.AnimeJSON(2, "Steins;Gate"),
		testutil.AnimeJSON(3, "Gintama"),
	}, 25)
	h := newTestServer(t, mock, nil)

	resp := get(t, h, "/top?page=2&limit=2&filter=airing")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var list []anime.Anime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Gintama", list[0].Title)
	assert.Equal(t, 3, list[0].ID)
}

func TestTopEndpoint_InvalidPaging(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	h := newTestServer(t, mock, nil)

	for _, target := range []string{"/top?page=0", "/top?page=x", "/top?limit=26", "/season?limit=0"} {
		t.Run(target, func(t *testing.T) {
			resp := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Equal(t, 0, mock.RequestCount())
}

func TestSearchEndpoint(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetHandler("/v4/anime", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bebop", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testutil.PagedBody([]string{testutil.AnimeJSON(1, "Cowboy Bebop")}, 1, 10)))
	})
	h := newTestServer(t, mock, nil)

	t.Run("missing query", func(t *testing.T) {
		resp := get(t, h, "/search")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("results", func(t *testing.T) {
		resp := get(t, h, "/search?q=bebop")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []anime.Anime
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		require.Len(t, list, 1)
		assert.Equal(t, "Cowboy Bebop", list[0].Title)
	})
}

func TestAnimeEndpoint(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/v4/anime/1/full", testutil.NewJSONResponse(`{"data":`+testutil.AnimeJSON(1, "Cowboy Bebop")+`}`))
	mock.SetResponse("/v4/anime/2/full", testutil.NewServerErrorResponse())
	mock.SetResponse("/v4/anime/3/full", testutil.NewRateLimitResponse(0))
	h := newTestServer(t, mock, nil)

	t.Run("found", func(t *testing.T) {
		resp := get(t, h, "/anime/1")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var a anime.Anime
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
		assert.Equal(t, "Cowboy Bebop", a.Title)
		assert.Equal(t, []string{"Sunrise"}, a.Studios)
	})

	t.Run("not found", func(t *testing.T) {
		resp := get(t, h, "/anime/99")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, resource.MessageNotFound, decodeError(t, resp).Message)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		resp := get(t, h, "/anime/2")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, resource.MessageServer, decodeError(t, resp).Message)
		assert.Equal(t, 1, mock.PathCount("/v4/anime/2/full"))
	})

	t.Run("rate limit exhausts retries", func(t *testing.T) {
		resp := get(t, h, "/anime/3")
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, 2, mock.PathCount("/v4/anime/3/full"))
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := get(t, h, "/anime/abc")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestEpisodesEndpoint(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetPaged("/v4/anime/1/episodes", []string{
		`{"mal_id":1,"title":"Asteroid Blues","filler":false,"recap":false}`,
		`{"mal_id":2,"title":"Stray Dog Strut","filler":false,"recap":false}`,
	}, 100)
	h := newTestServer(t, mock, nil)

	resp := get(t, h, "/anime/1/episodes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var eps []anime.Episode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eps))
	require.Len(t, eps, 2)
	assert.Equal(t, "Stray Dog Strut", eps[1].Title)
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetPaged("/v4/seasons/now", []string{testutil.AnimeJSON(1, "Frieren")}, 25)
	h := newTestServer(t, mock, nil)

	require.Equal(t, http.StatusOK, get(t, h, "/season").StatusCode)

	resp := get(t, h, "/metrics")
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "# HELP")
	assert.Contains(t, string(body), "jikan_requests_total")
	assert.Contains(t, string(body), "jikan_state_emissions_total")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		class      retry.ErrorClass
		want       int
	}{
		{"not found", http.StatusNotFound, retry.ErrorClassClient, http.StatusNotFound},
		{"rate limited", http.StatusTooManyRequests, retry.ErrorClassRateLimit, http.StatusTooManyRequests},
		{"bad request", http.StatusBadRequest, retry.ErrorClassClient, http.StatusBadGateway},
		{"server error", http.StatusInternalServerError, retry.ErrorClassServer, http.StatusBadGateway},
		{"malformed", http.StatusOK, retry.ErrorClassMalformed, http.StatusBadGateway},
		{"network", 0, retry.ErrorClassNetwork, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.statusCode, tt.class))
		})
	}
}

func TestRespond_UsesCauseNotMessage(t *testing.T) {
	ch := make(chan resource.State[int], 1)
	state := resource.Failure[int]("Reworded: nothing here", nil, false)
	state.StatusCode = http.StatusNotFound
	state.Class = retry.ErrorClassClient
	ch <- state
	close(ch)

	w := httptest.NewRecorder()
	respond(w, ch)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Reworded: nothing here", decodeError(t, w.Result()).Message)
}
