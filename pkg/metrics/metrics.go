// Package metrics provides the Prometheus registry and scrape handler for the Jikan client.
// All metrics are defined in their respective packages (client, cache, ratelimit,
// retry, resource, pagination) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the Jikan client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry scraped by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves all registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - jikan_rate_limit_consecutive_429 (Gauge): 429 responses since the last success
//   - jikan_rate_limit_blocks_total (Counter): Requests rejected during a cooldown
//   - jikan_rate_limit_throttles_total (Counter): Requests held back until a cooldown passed
//
// Cache Metrics (pkg/cache):
//   - jikan_cache_hits_total{freshness} (Counter): Cache hits, fresh or stale
//   - jikan_cache_misses_total (Counter): Cache misses
//   - jikan_cache_stored_bytes_total{layer="redis"} (Counter): Bytes written to the cache
//   - jikan_304_responses_total (Counter): 304 Not Modified responses
//   - jikan_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - jikan_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - jikan_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - jikan_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - jikan_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/retry):
//   - jikan_retries_total{error_class} (Counter): Retry attempts by error class
//   - jikan_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - jikan_retry_exhausted_total{error_class} (Counter): Calls that exhausted max retries
//
// State Metrics (pkg/resource, pkg/pagination):
//   - jikan_state_emissions_total{state} (Counter): Loading/success/error states emitted
//   - jikan_page_loads_total{source, result} (Counter): Page loads by source and result
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate
//	sum(rate(jikan_cache_hits_total[5m])) /
//	(sum(rate(jikan_cache_hits_total[5m])) + sum(rate(jikan_cache_misses_total[5m])))
//
//	# Rate limit pressure
//	jikan_rate_limit_consecutive_429 > 0
//
//	# Retry rate by class
//	sum by (error_class) (rate(jikan_retries_total[5m]))
//
//	# P95 Request Latency
//	histogram_quantile(0.95, rate(jikan_request_duration_seconds_bucket[5m]))
