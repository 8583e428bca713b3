// Package metrics holds the prometheus collectors for AI calls and rate limiting.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry plus the collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	aiRequests        *prometheus.CounterVec
	aiDuration        *prometheus.HistogramVec
	rateLimitRefusals *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime and process stats.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitplan_ai_requests_total",
			Help: "AI backend calls by operation and outcome kind.",
		}, []string{"operation", "outcome"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitplan_ai_request_duration_seconds",
			Help:    "Latency of AI backend calls.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"operation"}),
		rateLimitRefusals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitplan_ratelimit_refusals_total",
			Help: "Calls refused by the local sliding-window limiter.",
		}, []string{"key"}),
	}
	reg.MustRegister(
		m.aiRequests,
		m.aiDuration,
		m.rateLimitRefusals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAI records one finished AI call. outcome is "ok" or an error kind.
func (m *Metrics) ObserveAI(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(operation, outcome).Inc()
	m.aiDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RateLimitRefused counts one refusal for key.
func (m *Metrics) RateLimitRefused(key string) {
	if m == nil {
		return
	}
	m.rateLimitRefusals.WithLabelValues(key).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
