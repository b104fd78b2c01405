package resolver

import "github.com/prometheus/client_golang/prometheus"

var (
	fetchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vllmd",
			Subsystem: "resolver",
			Name:      "fetches_total",
			Help:      "Total number of adapter fetches started",
		},
	)

	fetchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vllmd",
			Subsystem: "resolver",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed adapter fetches",
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vllmd",
			Subsystem: "resolver",
			Name:      "cache_hits_total",
			Help:      "Total number of resolutions served from the local cache",
		},
	)

	fetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vllmd",
			Subsystem: "resolver",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of adapter fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(fetchesTotal, fetchErrorsTotal, cacheHitsTotal, fetchDuration)
}
