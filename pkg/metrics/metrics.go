// Package metrics exposes the Prometheus registry used by the feed client.
// All metrics are defined in their respective packages (pagination, cache,
// gate, assets, client, httpcache) and registered there via promauto.
//
// This package provides the scrape handler and a reference of all metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the feed client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry read by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Pagination Metrics (pkg/pagination):
//   - feed_page_loads_total{outcome} (Counter): Page loads by outcome (success, error)
//   - feed_page_load_duration_seconds (Histogram): Page fetch duration
//   - feed_page_stale_responses_total (Counter): Page results dropped because the cursor moved
//
// Asset Cache Metrics (pkg/cache):
//   - feed_asset_cache_hits_total (Counter): Asset cache hits
//   - feed_asset_cache_misses_total (Counter): Asset cache misses
//   - feed_asset_cache_evictions_total (Counter): Least recently used entries evicted
//   - feed_asset_cache_entries (Gauge): Current number of cached assets
//
// Fetch Gate Metrics (pkg/gate):
//   - feed_gate_flights_started_total (Counter): Fetches started by a leader
//   - feed_gate_joins_total (Counter): Callers that joined an in-flight fetch
//   - feed_gate_cancellations_total (Counter): Withdrawn interests
//   - feed_gate_flights_aborted_total (Counter): Fetches aborted after the last waiter left
//   - feed_gate_in_flight (Gauge): Current in-flight fetches
//
// Asset Metrics (pkg/assets):
//   - feed_asset_fetches_total{outcome} (Counter): Asset fetches by outcome
//   - feed_asset_fetch_duration_seconds (Histogram): Asset fetch duration
//
// Request Metrics (pkg/client):
//   - feed_requests_total{operation, status} (Counter): Requests by operation (page, asset) and HTTP status
//   - feed_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - feed_errors_total{kind} (Counter): Errors by kind (invalid_request, server_error, decode_error, transport, canceled)
//
// Response Store Metrics (pkg/httpcache):
//   - feed_http_cache_hits_total{state} (Counter): Stored pages found (fresh, stale)
//   - feed_http_cache_misses_total (Counter): Store misses
//   - feed_http_cache_not_modified_total (Counter): 304 Not Modified responses
//   - feed_http_cache_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Asset Cache Hit Rate
//   sum(rate(feed_asset_cache_hits_total[5m])) /
//   (sum(rate(feed_asset_cache_hits_total[5m])) + sum(rate(feed_asset_cache_misses_total[5m])))
//
//   # De-duplicated Asset Requests
//   rate(feed_gate_joins_total[5m])
//
//   # Page Error Rate
//   rate(feed_page_loads_total{outcome="error"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(feed_request_duration_seconds_bucket[5m]))
