// Package metrics exports credential operation metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warden/config"
	"warden/internal/domain/service"
)

const namespace = "warden"

// Recorder implements service.AuthMetrics on a dedicated registry.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with the Go runtime and process collectors registered.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "operations_total",
		Help:      "Credential operations by outcome.",
	}, []string{"operation", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "operation_duration_seconds",
		Help:      "Latency of credential operations, dominated by password hashing.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation"})

	registry.MustRegister(
		operations,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		registry:   registry,
		operations: operations,
		duration:   duration,
	}
}

// Observe implements service.AuthMetrics.
func (r *Recorder) Observe(operation, outcome string, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// NewAuthMetrics returns the Recorder when metrics are enabled and a no-op otherwise.
func NewAuthMetrics(cfg *config.Config, recorder *Recorder) service.AuthMetrics {
	if !cfg.Metrics.Enabled {
		return service.NopAuthMetrics{}
	}

	return recorder
}
