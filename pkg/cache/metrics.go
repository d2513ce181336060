package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by freshness (fresh, stale).
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_cache_hits_total",
			Help: "Total number of Jikan cache hits",
		},
		[]string{"freshness"},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_cache_misses_total",
			Help: "Total number of Jikan cache misses",
		},
	)

	// CacheStoredBytes sums the size of entries written.
	CacheStoredBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_cache_stored_bytes_total",
			Help: "Total bytes written to the Jikan cache",
		},
		[]string{"layer"},
	)

	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_conditional_requests_total",
			Help: "Total number of conditional requests sent with If-None-Match or If-Modified-Since",
		},
	)

	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_304_responses_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks cache operation errors by operation (get, set, delete).
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"},
	)
)
