package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests by operation and status code",
	}, []string{"operation", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "API request latency by operation",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// RecordHTTPRequest counts an API request and observes its latency.
func RecordHTTPRequest(operation, status string, duration time.Duration) {
	httpRequests.WithLabelValues(operation, status).Inc()
	httpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
