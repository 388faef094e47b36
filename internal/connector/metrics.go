package connector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "safeplate_connector_lookup_duration_seconds",
		Help:    "Latency of external connector lookups",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"connector"})

	lookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safeplate_connector_failures_total",
		Help: "Connector lookup failures by normalized error category",
	}, []string{"connector", "category"})

	breakerOpens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safeplate_connector_breaker_opens_total",
		Help: "Times a connector circuit breaker opened",
	}, []string{"connector"})
)

func observeLookup(id string, start time.Time) {
	lookupDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())
}

func countFailure(id string, category ErrorCategory) {
	lookupFailures.WithLabelValues(id, string(category)).Inc()
}
