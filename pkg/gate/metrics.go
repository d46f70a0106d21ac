package gate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FlightsStarted tracks underlying fetches issued
	FlightsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_gate_flights_started_total",
		Help: "Total number of asset requests started by the fetch gate",
	})

	// GateJoins tracks callers that joined an existing flight instead of fetching
	GateJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_gate_joins_total",
		Help: "Total number of callers that joined an in-flight request",
	})

	// GateCancellations tracks withdrawn interests
	GateCancellations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_gate_cancellations_total",
		Help: "Total number of callers that withdrew interest",
	})

	// FlightsAborted tracks flights aborted because the last waiter withdrew
	FlightsAborted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_gate_flights_aborted_total",
		Help: "Total number of requests aborted after the last waiter withdrew",
	})

	// InFlight tracks registered flights
	InFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feed_gate_in_flight",
		Help: "Current number of in-flight asset requests",
	})
)
