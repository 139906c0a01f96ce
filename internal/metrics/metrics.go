// Package metrics provides Prometheus metrics for request and response validation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jerify"

// Metrics holds all Prometheus metrics for jerify.
type Metrics struct {
	// Request metrics
	RequestsAccepted *prometheus.CounterVec
	RequestsRejected *prometheus.CounterVec

	// Response metrics
	ResponsesRejected *prometheus.CounterVec

	// Schema directory metrics
	SchemasLoaded  prometheus.Gauge
	SchemasSkipped prometheus.Gauge
	SchemaLoads    prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them, along with the Go and process
// collectors, with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith creates all metrics and registers them with r. g is used to serve them.
func NewWith(r prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(r)
	return &Metrics{
		RequestsAccepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_accepted_total",
			Help:      "Total number of request bodies which passed validation",
		}, []string{"schema"}),
		RequestsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Total number of request bodies rejected before reaching the handler",
		}, []string{"schema", "reason"}),
		ResponsesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_rejected_total",
			Help:      "Total number of response payloads which failed validation",
		}, []string{"schema", "reason"}),
		SchemasLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schemas_loaded",
			Help:      "Number of schemas in the current registry",
		}),
		SchemasSkipped: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schemas_skipped",
			Help:      "Number of schema files skipped by the last load",
		}),
		SchemaLoads: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_loads_total",
			Help:      "Total number of schema directory loads",
		}),
		gatherer: g,
	}
}

// RequestAccepted records a request body which passed validation.
func (m *Metrics) RequestAccepted(schema string) {
	m.RequestsAccepted.WithLabelValues(schema).Inc()
}

// RequestRejected records a request body which was refused.
func (m *Metrics) RequestRejected(schema, reason string) {
	m.RequestsRejected.WithLabelValues(schema, reason).Inc()
}

// ResponseRejected records a response payload which was refused.
func (m *Metrics) ResponseRejected(schema, reason string) {
	m.ResponsesRejected.WithLabelValues(schema, reason).Inc()
}

// SchemasLoadedCount records the outcome of a schema directory load.
func (m *Metrics) SchemasLoadedCount(loaded, skipped int) {
	m.SchemaLoads.Inc()
	m.SchemasLoaded.Set(float64(loaded))
	m.SchemasSkipped.Set(float64(skipped))
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
