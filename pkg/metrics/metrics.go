// Package metrics exposes assistant counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "groundwater"

// Outcome labels for collaborator calls.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics holds the collectors on a private registry so tests and multiple
// servers in one process never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	queries      *prometheus.CounterVec
	duration     prometheus.Histogram
	fallbacks    *prometheus.CounterVec
	charts       *prometheus.CounterVec
	translations *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Questions answered, by classified intent.",
		}, []string{"intent"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end time to answer a question.",
			Buckets:   prometheus.DefBuckets,
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_total",
			Help:      "Generative fallback calls, by outcome.",
		}, []string{"outcome"}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_total",
			Help:      "Chart renders, by outcome.",
		}, []string{"outcome"}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Reply translations, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.queries,
		m.duration,
		m.fallbacks,
		m.charts,
		m.translations,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveQuery records one answered question.
func (m *Metrics) ObserveQuery(intent string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(intent).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Fallback records a generative fallback outcome.
func (m *Metrics) Fallback(outcome string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(outcome).Inc()
}

// Chart records a chart render outcome.
func (m *Metrics) Chart(outcome string) {
	if m == nil {
		return
	}
	m.charts.WithLabelValues(outcome).Inc()
}

// Translation records a translation outcome.
func (m *Metrics) Translation(outcome string) {
	if m == nil {
		return
	}
	m.translations.WithLabelValues(outcome).Inc()
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
