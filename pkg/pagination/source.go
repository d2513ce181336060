package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var pageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jikan_page_loads_total",
	Help: "Total page loads by source and result",
}, []string{"source", "result"})

// NoKey marks an absent page key.
const NoKey = 0

// LoadParams describes one page request. A zero Key requests page 1.
type LoadParams struct {
	Key      int
	LoadSize int
}

// Page returns the 1-based page number to request.
func (p LoadParams) Page() int {
	if p.Key <= NoKey {
		return 1
	}
	return p.Key
}

// LoadResult is either a loaded page or an error.
type LoadResult[T any] struct {
	Data    []T
	PrevKey int
	NextKey int
	Err     error
}

// IsError reports whether the load failed.
func (r LoadResult[T]) IsError() bool {
	return r.Err != nil
}

// FetchResult is one page as returned by the API, before mapping.
type FetchResult[R any] struct {
	Items []R

	// HasNextPage is nil for endpoints without a pagination object.
	HasNextPage *bool

	// LastVisiblePage is 0 when unknown.
	LastVisiblePage int
}

// FetchFunc fetches one page of raw items.
type FetchFunc[R any] func(ctx context.Context, page, limit int) (FetchResult[R], error)

// PagingSource loads pages of T.
type PagingSource[T any] interface {
	Load(ctx context.Context, params LoadParams) LoadResult[T]
}

// Source maps a FetchFunc into pages of domain items.
type Source[R, T any] struct {
	name    string
	fetch   FetchFunc[R]
	mapItem func(R) T
}

// NewSource creates a paging source. name labels metrics and logs.
func NewSource[R, T any](name string, fetch FetchFunc[R], mapItem func(R) T) *Source[R, T] {
	return &Source[R, T]{name: name, fetch: fetch, mapItem: mapItem}
}

// Load fetches the requested page. NextKey is NoKey once has_next_page is
// false, and also for any page that comes back empty, even when the server
// still reports has_next_page.
func (s *Source[R, T]) Load(ctx context.Context, params LoadParams) LoadResult[T] {
	return s.load(ctx, params, s.fetch)
}

func (s *Source[R, T]) load(ctx context.Context, params LoadParams, fetch FetchFunc[R]) LoadResult[T] {
	page := params.Page()

	res, err := fetch(ctx, page, params.LoadSize)
	if err != nil {
		pageLoadsTotal.WithLabelValues(s.name, "error").Inc()
		log.Debug().
			Err(err).
			Str("source", s.name).
			Int("page", page).
			Msg("Page load failed")
		return LoadResult[T]{Err: fmt.Errorf("load %s page %d: %w", s.name, page, err)}
	}

	data := make([]T, 0, len(res.Items))
	for _, item := range res.Items {
		data = append(data, s.mapItem(item))
	}

	pageLoadsTotal.WithLabelValues(s.name, "success").Inc()
	return LoadResult[T]{
		Data:    data,
		PrevKey: prevKey(page),
		NextKey: nextKey(page, res),
	}
}

func prevKey(page int) int {
	if page <= 1 {
		return NoKey
	}
	return page - 1
}

// nextKey follows has_next_page when present. An empty page always ends the list.
func nextKey[R any](page int, res FetchResult[R]) int {
	if len(res.Items) == 0 {
		return NoKey
	}
	if res.HasNextPage != nil && !*res.HasNextPage {
		return NoKey
	}
	return page + 1
}

// RetryingSource is a Source whose fetches are retried under a policy.
// Only rate limiting and connectivity failures are retried.
type RetryingSource[R, T any] struct {
	*Source[R, T]
	policy retry.Policy
}

// NewRetryingSource creates a paging source that retries fetches.
func NewRetryingSource[R, T any](name string, fetch FetchFunc[R], mapItem func(R) T, policy retry.Policy) *RetryingSource[R, T] {
	return &RetryingSource[R, T]{
		Source: NewSource(name, fetch, mapItem),
		policy: policy,
	}
}

// Load fetches the requested page, retrying transient failures. Keys follow
// Source.Load, so an empty page ends the list.
func (s *RetryingSource[R, T]) Load(ctx context.Context, params LoadParams) LoadResult[T] {
	return s.load(ctx, params, WithRetry(s.fetch, s.policy))
}

// WithRetry wraps fetch so that each page is retried under policy.
func WithRetry[R any](fetch FetchFunc[R], policy retry.Policy) FetchFunc[R] {
	return func(ctx context.Context, page, limit int) (FetchResult[R], error) {
		return retry.Do(ctx, policy, func(ctx context.Context) (FetchResult[R], error) {
			return fetch(ctx, page, limit)
		})
	}
}

// WithTimeout wraps fetch so that each call is bounded by d.
func WithTimeout[R any](fetch FetchFunc[R], d time.Duration) FetchFunc[R] {
	return func(ctx context.Context, page, limit int) (FetchResult[R], error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return fetch(ctx, page, limit)
	}
}
