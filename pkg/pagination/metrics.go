package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for page loading.
var (
	pageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_page_loads_total",
		Help: "Total page loads by outcome",
	}, []string{"outcome"})

	pageLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_page_load_duration_seconds",
		Help:    "Page fetch duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	staleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_page_stale_responses_total",
		Help: "Total page responses dropped because the cursor had moved",
	})
)
