package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the outcome label.
const (
	outcomeSuccess        = "success"
	outcomeEmpty          = "empty"
	outcomeCached         = "cached"
	outcomeInvalidID      = "invalid_steamid"
	outcomePrivate        = "private"
	outcomeNotFound       = "not_found"
	outcomeMalformed      = "malformed"
	outcomeTransportError = "transport_error"
	outcomeCancelled      = "cancelled"
)

// Prometheus metrics for inventory fetches.
var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_fetches_total",
		Help: "Total inventory fetches by outcome",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_fetch_duration_seconds",
		Help:    "Wall time of complete inventory fetches including retries",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	pagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_pages_total",
		Help: "Total inventory pages received",
	})

	itemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_items_total",
		Help: "Total items returned by kind",
	}, []string{"kind"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_retries_total",
		Help: "Total number of page retries",
	})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_retry_exhausted_total",
		Help: "Total number of fetches that failed after exhausting retries",
	})
)
