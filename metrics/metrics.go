// Package metrics exposes the Prometheus collectors of the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pin request outcomes
const (
	OutcomeOk         = "ok"
	OutcomeBadRequest = "bad_request"
	OutcomeFailed     = "failed"
)

// Metrics keeps the collectors and the registry they are registered in.
type Metrics struct {
	registry        *prometheus.Registry
	pinRequests     *prometheus.CounterVec
	pinDuration     *prometheus.HistogramVec
	exampleRequests prometheus.Counter
}

// MustNew constructs the collectors in the given registry.
// If the registry is nil, then a fresh one is created with the go and process collectors.
// Registration error panics the same way promauto helpers do.
func MustNew(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	pinRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulbound",
			Subsystem: "gateway",
			Name:      "pin_requests_total",
			Help:      "Total number of metadata pin requests by outcome.",
		},
		[]string{"outcome"},
	)
	pinDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "soulbound",
			Subsystem: "gateway",
			Name:      "pin_duration_seconds",
			Help:      "Duration of the metadata pin requests including the storage network upload.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	exampleRequests := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "soulbound",
			Subsystem: "gateway",
			Name:      "example_requests_total",
			Help:      "Total number of sample metadata requests.",
		},
	)

	registry.MustRegister(pinRequests, pinDuration, exampleRequests)

	return &Metrics{
		registry:        registry,
		pinRequests:     pinRequests,
		pinDuration:     pinDuration,
		exampleRequests: exampleRequests,
	}
}

// ObservePin records the finished pin request.
func (m *Metrics) ObservePin(outcome string, duration time.Duration) {
	m.pinRequests.WithLabelValues(outcome).Inc()
	m.pinDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveExample records the sample metadata request.
func (m *Metrics) ObserveExample() {
	m.exampleRequests.Inc()
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
