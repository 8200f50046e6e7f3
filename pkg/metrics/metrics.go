// Package metrics provides the Prometheus registry and HTTP handler for the
// inventory client. All metrics are defined in their respective packages
// (client, inventory, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the inventory client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer matching Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler exposes every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Fetch Metrics (pkg/inventory):
//   - inventory_fetches_total{outcome} (Counter): Complete fetches by outcome
//     (success, empty, cached, invalid_steamid, private, not_found, malformed,
//     transport_error, cancelled)
//   - inventory_fetch_duration_seconds (Histogram): Wall time of complete fetches including retries
//   - inventory_pages_total (Counter): Inventory pages received
//   - inventory_items_total{kind} (Counter): Items returned by kind (item, currency)
//   - inventory_retries_total (Counter): Page retries
//   - inventory_retry_exhausted_total (Counter): Fetches that failed after exhausting retries
//
// Request Metrics (pkg/client):
//   - steam_inventory_requests_total{status} (Counter): Requests by HTTP status
//   - steam_inventory_request_duration_seconds (Histogram): Request duration
//   - steam_inventory_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, decode)
//
// Cache Metrics (pkg/cache):
//   - inventory_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - inventory_cache_misses_total (Counter): Cache misses
//   - inventory_cache_written_bytes_total{layer="redis"} (Counter): Bytes written to the cache
//   - inventory_cache_errors_total{operation} (Counter): Cache operation errors
//
// Rate Limit Metrics (pkg/ratelimit):
//   - steam_rate_limit_penalties_total (Counter): 429 responses that put a route into cooldown
//   - steam_rate_limit_waits_total (Counter): Requests delayed by a route cooldown
//   - steam_rate_limit_wait_seconds (Histogram): Time spent waiting for cooldowns
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(inventory_cache_hits_total[5m])) /
//   (sum(rate(inventory_cache_hits_total[5m])) + sum(rate(inventory_cache_misses_total[5m])))
//
//   # Private profile share
//   rate(inventory_fetches_total{outcome="private"}[5m]) / rate(inventory_fetches_total[5m])
//
//   # Throttling by Steam
//   rate(steam_inventory_errors_total{class="rate_limit"}[5m])
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(inventory_fetch_duration_seconds_bucket[5m]))
