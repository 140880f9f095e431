// Package metrics holds Prometheus instruments used across the service.  All
// collectors are registered with the global registry, so importing this
// package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for CatalogOps.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	CatalogOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Catalog service calls by operation and outcome.",
		}, []string{"operation", "outcome"})

	CatalogLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Catalog service call latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"})

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tutorial_cache_hits_total",
			Help: "Cumulative number of by-id lookups served from the cache.",
		})

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tutorial_cache_misses_total",
			Help: "Cumulative number of by-id lookups that reached the store.",
		})
)

func init() {
	prometheus.MustRegister(
		CatalogOps,
		CatalogLatency,
		CacheHitsTotal,
		CacheMissesTotal,
	)
}
