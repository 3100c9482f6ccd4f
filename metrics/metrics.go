// Package metrics exposes generation counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors recorded by the generation service.
type Metrics struct {
	registry *prometheus.Registry

	Generated     *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	RenderSeconds prometheus.Histogram
	CacheHits     prometheus.Counter
}

// New registers a fresh set of collectors on their own registry, so tests
// and multiple servers in one process do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrforge",
			Name:      "generated_total",
			Help:      "QR codes generated, by QR type.",
		}, []string{"type"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrforge",
			Name:      "generate_errors_total",
			Help:      "Failed generations, by reason.",
		}, []string{"reason"}),
		RenderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qrforge",
			Name:      "render_seconds",
			Help:      "Time spent rendering and encoding one image.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qrforge",
			Name:      "cache_hits_total",
			Help:      "Generations served from the render cache.",
		}),
	}
	reg.MustRegister(
		m.Generated,
		m.Errors,
		m.RenderSeconds,
		m.CacheHits,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
