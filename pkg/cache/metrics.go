package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks asset lookups served from memory
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_asset_cache_hits_total",
			Help: "Total number of asset cache hits",
		},
	)

	// CacheMisses tracks asset lookups that were not cached
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_asset_cache_misses_total",
			Help: "Total number of asset cache misses",
		},
	)

	// CacheEvictions tracks entries dropped because the bound was exceeded
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_asset_cache_evictions_total",
			Help: "Total number of assets evicted by the LRU bound",
		},
	)

	// CacheEntries tracks the current number of cached assets
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_asset_cache_entries",
			Help: "Current number of assets held in memory",
		},
	)
)
