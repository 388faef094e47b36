package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safeplate_evaluations_total",
		Help: "Completed compliance evaluations by overall verdict",
	}, []string{"overall"})

	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safeplate_evaluation_duration_seconds",
		Help:    "End-to-end evaluation latency including ingredient resolution",
		Buckets: prometheus.DefBuckets,
	})

	unknownIngredients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safeplate_unknown_ingredients_total",
		Help: "Ingredients no resolution tier could classify",
	})
)
