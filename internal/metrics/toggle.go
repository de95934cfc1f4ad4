// Package metrics provides Prometheus metrics for the toggle server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledtoggle"

// Connection outcomes recorded by RecordConnection.
const (
	ConnAccepted    = "accepted"
	ConnRejected    = "rejected"
	ConnRateLimited = "rate_limited"
)

// Handler error kinds recorded by RecordHandlerError.
const (
	ErrorTimeout = "timeout"
	ErrorTooLong = "line_too_long"
	ErrorIO      = "io"
	ErrorPanic   = "panic"
)

var (
	connectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "connections_total",
		Help:      "TCP connections by admission outcome",
	}, []string{"result"})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "active_connections",
		Help:      "Connections currently being handled",
	})

	handlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "handler_errors_total",
		Help:      "Connections that ended without a toggle, by reason",
	}, []string{"kind"})

	handlerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "handler_duration_seconds",
		Help:      "Time from accept to close for handled connections",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})

	togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "toggles_total",
		Help:      "LED state flips by source",
	}, []string{"source"})

	ledOn = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "on",
		Help:      "Current LED state (1 = ON, 0 = OFF)",
	})
)

// RecordConnection counts an accepted, rejected or rate limited connection.
func RecordConnection(result string) {
	connectionsTotal.WithLabelValues(result).Inc()
}

// ConnectionOpened marks a handler as running.
func ConnectionOpened() {
	activeConnections.Inc()
}

// ConnectionClosed marks a handler as finished and observes its lifetime.
func ConnectionClosed(started time.Time) {
	activeConnections.Dec()
	handlerDuration.Observe(time.Since(started).Seconds())
}

// RecordHandlerError counts a handler that ended without toggling.
func RecordHandlerError(kind string) {
	handlerErrors.WithLabelValues(kind).Inc()
}

// RecordToggle counts a flip and publishes the new value.
func RecordToggle(source string, on bool) {
	togglesTotal.WithLabelValues(source).Inc()
	if on {
		ledOn.Set(1)
	} else {
		ledOn.Set(0)
	}
}
