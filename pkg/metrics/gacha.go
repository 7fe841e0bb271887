package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the replay-backed state/stats HTTP handlers
	ReplayLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gacha_replay_latency_seconds",
		Help:    "Latency of replay-backed gacha handlers",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of pull import requests served
	ImportRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gacha_import_requests_total",
		Help: "Total number of pull import requests",
	})
)

func Init() {
	prometheus.MustRegister(
		ReplayLatency,
		ImportRequests,
	)
}
