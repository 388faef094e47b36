package registry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safeplate_ontology_resolve_duration_seconds",
		Help:    "Latency of full ingredient resolution, all tiers included",
		Buckets: prometheus.DefBuckets,
	})

	resolveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safeplate_ontology_resolve_total",
		Help: "Ingredient resolutions by tier that answered",
	}, []string{"tier"})
)

const (
	tierStatic    = "static"
	tierFuzzy     = "fuzzy"
	tierDynamic   = "dynamic"
	tierConnector = "connector"
	tierUnknown   = "unknown"
)

func observeResolve(tier string, start time.Time) {
	resolveOutcomes.WithLabelValues(tier).Inc()
	resolveDuration.Observe(time.Since(start).Seconds())
}
