// Package metric provides Prometheus metrics for the depot data layer:
// query totals by outcome, query latency, endpoint connectivity, and cache
// invalidations. The cache package registers its own hit/miss metrics
// against the same registry.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Query outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeConnectivity = "connectivity"
	OutcomeMalformed    = "malformed"
	OutcomeError        = "error"
)

// Metrics contains the data-layer metrics.
type Metrics struct {
	QueriesTotal       *prometheus.CounterVec
	QueryDuration      prometheus.Histogram
	EndpointUp         prometheus.Gauge
	CacheInvalidations *prometheus.CounterVec
}

// NewMetrics creates the data-layer metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "depot",
				Subsystem: "sparql",
				Name:      "queries_total",
				Help:      "Total number of queries sent to the SPARQL endpoint",
			},
			[]string{"operation", "outcome"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "depot",
				Subsystem: "sparql",
				Name:      "query_duration_seconds",
				Help:      "Latency of queries against the SPARQL endpoint",
				Buckets:   prometheus.DefBuckets,
			},
		),
		EndpointUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "depot",
				Subsystem: "sparql",
				Name:      "endpoint_up",
				Help:      "Whether the SPARQL endpoint is reachable (1) or down (0)",
			},
		),
		CacheInvalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "depot",
				Subsystem: "cache",
				Name:      "invalidations_total",
				Help:      "Total number of prefix invalidations",
			},
			[]string{"prefix"},
		),
	}
}

// Registry bundles a Prometheus registry with the data-layer metrics.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a registry with the data-layer metrics and the Go
// runtime collectors registered.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	metrics := NewMetrics()
	prometheusRegistry.MustRegister(
		metrics.QueriesTotal,
		metrics.QueryDuration,
		metrics.EndpointUp,
		metrics.CacheInvalidations,
	)
	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            metrics,
	}
}

// PrometheusRegistry returns the underlying Prometheus registry, for
// exposing the metrics endpoint and for cache metric registration.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}
