package assets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for underlying asset fetches.
var (
	assetFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_asset_fetches_total",
		Help: "Total underlying asset fetches by outcome",
	}, []string{"outcome"})

	assetFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_asset_fetch_duration_seconds",
		Help:    "Underlying asset fetch duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)
