package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics.
// It implements the evaluation handler's Observer.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations        *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	SkippedExpirations prometheus.Counter
}

// NewMetrics creates the collectors on a private registry, so several
// servers can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buywrite_evaluations_total",
				Help: "Evaluation requests served, by outcome",
			},
			[]string{"outcome"},
		),

		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buywrite_evaluation_duration_seconds",
				Help:    "Wall time of evaluation requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"outcome"},
		),

		SkippedExpirations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "buywrite_skipped_expirations_total",
				Help: "Expirations skipped because their chain was missing, empty or out of band",
			},
		),
	}

	m.registry.MustRegister(
		m.Evaluations,
		m.EvaluationDuration,
		m.SkippedExpirations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveEvaluation records one served evaluation.
func (m *Metrics) ObserveEvaluation(outcome string, elapsed time.Duration, skipped int) {
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.EvaluationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if skipped > 0 {
		m.SkippedExpirations.Add(float64(skipped))
	}
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
