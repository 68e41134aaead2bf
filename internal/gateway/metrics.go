package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway requests. Each Client owns a private registry so
// tests and multiple clients do not collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the gateway collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spectro",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests by method, route, and outcome.",
		}, []string{"method", "route", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spectro",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Registry exposes the collectors for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes a snapshot in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// observe records one finished request. outcome is an HTTP status code
// rendered as text, or "transport_error".
func (m *Metrics) observe(method, route, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, outcome).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}
