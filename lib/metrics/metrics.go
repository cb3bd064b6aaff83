// Package metrics exposes counters about scoring passes in the Prometheus
// format. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	blameFailures prometheus.Counter
	suggested     prometheus.Counter
	duration      prometheus.Histogram
}

// New creates the metrics in their own registry, so more than one instance can
// live in the same process.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewers_passes_total",
			Help: "Scoring passes by final state.",
		}, []string{"outcome"}),
		blameFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reviewers_blame_failures_total",
			Help: "Files skipped because blame could not be computed.",
		}),
		suggested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reviewers_suggested_total",
			Help: "Reviewers selected by scoring passes.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewers_pass_duration_seconds",
			Help:    "Duration of scoring passes.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}

	registry.MustRegister(m.passes, m.blameFailures, m.suggested, m.duration)

	return m
}

func (m *Metrics) PassFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.passes.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) BlameFailed() {
	if m == nil {
		return
	}

	m.blameFailures.Inc()
}

func (m *Metrics) ReviewersSuggested(count int) {
	if m == nil || count <= 0 {
		return
	}

	m.suggested.Add(float64(count))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
