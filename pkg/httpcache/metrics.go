package httpcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks stored responses found, by freshness state
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_http_cache_hits_total",
			Help: "Total number of stored page responses found",
		},
		[]string{"state"}, // "fresh", "stale"
	)

	// CacheMisses tracks lookups without a stored response
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_http_cache_misses_total",
			Help: "Total number of page response cache misses",
		},
	)

	// NotModifiedResponses tracks 304 responses that refreshed an entry
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_http_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks Redis operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_http_cache_errors_total",
			Help: "Total number of page response cache errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
