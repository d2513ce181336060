package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/metrics"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxPageSize = 25

type server struct {
	repo     *anime.Repository
	redis    *redis.Client
	pageSize int
	timeout  time.Duration
	logger   zerolog.Logger
}

// newServer builds the proxy. redisClient may be nil.
func newServer(repo *anime.Repository, redisClient *redis.Client, pageSize int, timeout time.Duration) *server {
	return &server{
		repo:     repo,
		redis:    redisClient,
		pageSize: pageSize,
		timeout:  timeout,
		logger:   logging.NewLogger("proxy"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", s.readyHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /top", s.topHandler)
	mux.HandleFunc("GET /season", s.seasonHandler)
	mux.HandleFunc("GET /search", s.searchHandler)
	mux.HandleFunc("GET /anime/{id}", s.animeHandler)
	mux.HandleFunc("GET /anime/{id}/episodes", s.episodesHandler)
	return s.logRequests(mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler reports whether Redis answers. Without Redis the proxy is always ready.
func (s *server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) topHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.paging(w, r)
	if !ok {
		return
	}
	q := jikan.TopQuery{
		Type:   r.URL.Query().Get("type"),
		Filter: r.URL.Query().Get("filter"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, s.repo.TopAnime(ctx, q, page, limit))
}

func (s *server) seasonHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.paging(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, s.repo.SeasonNow(ctx, page, limit))
}

func (s *server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	page, limit, ok := s.paging(w, r)
	if !ok {
		return
	}
	q := jikan.SearchQuery{
		Query:   query,
		Type:    r.URL.Query().Get("type"),
		Status:  r.URL.Query().Get("status"),
		OrderBy: r.URL.Query().Get("order_by"),
		Sort:    r.URL.Query().Get("sort"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, s.repo.Search(ctx, q, page, limit))
}

func (s *server) animeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, s.repo.Anime(ctx, id))
}

func (s *server) episodesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	page, ok := intParam(w, r, "page", 1, 1, 0)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, s.repo.Episodes(ctx, id, page))
}

// paging reads page and limit, writing a 400 and returning false when invalid.
func (s *server) paging(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	if page, ok = intParam(w, r, "page", 1, 1, 0); !ok {
		return 0, 0, false
	}
	if limit, ok = intParam(w, r, "limit", s.pageSize, 1, maxPageSize); !ok {
		return 0, 0, false
	}
	return page, limit, true
}

// intParam parses a query parameter within [lo, hi]. A hi of 0 means unbounded.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || (hi > 0 && v > hi) {
		writeError(w, http.StatusBadRequest, "invalid "+name+": "+raw)
		return 0, false
	}
	return v, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid anime id: "+r.PathValue("id"))
		return 0, false
	}
	return id, true
}

// respond waits for the terminal state of ch and writes it as JSON.
func respond[T any](w http.ResponseWriter, ch <-chan resource.State[T]) {
	state, ok := resource.Last(ch)
	switch {
	case !ok || !state.IsTerminal():
		writeError(w, http.StatusGatewayTimeout, "request cancelled")
	case state.IsError():
		writeError(w, statusFor(state.StatusCode, state.Class), state.Message)
	default:
		v, _ := state.Value()
		writeJSON(w, http.StatusOK, v)
	}
}

// statusFor maps the cause of an error state to the status served to callers.
func statusFor(statusCode int, class retry.ErrorClass) int {
	switch {
	case statusCode == http.StatusNotFound:
		return http.StatusNotFound
	case class == retry.ErrorClassRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}
