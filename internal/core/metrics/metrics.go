package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cache_requests_total", Help: "Cache lookups by result"},
		[]string{"cache", "result"}, // result: hit / miss
	)
	NotifyEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notify_events_total", Help: "Update notifications by outcome"},
		[]string{"result"}, // result: published / failed / dropped
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, CacheRequests, NotifyEvents)
}
