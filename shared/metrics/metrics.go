package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

// Metrics holds the collectors for provider attempts and request outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tryon_provider_attempts_total",
				Help: "Provider attempts by provider and outcome",
			},
			[]string{"provider", "outcome", "reason"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tryon_provider_attempt_duration_seconds",
				Help:    "Duration of a single provider attempt",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tryon_requests_total",
				Help: "Try-on requests by final result",
			},
			[]string{"result", "provider"},
		),
	}

	reg.MustRegister(m.attempts, m.duration, m.results)

	return m
}

func (m *Metrics) ObserveAttempt(provider, outcome, reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(provider, outcome, reason).Inc()
	m.duration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveResult(result, provider string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(result, provider).Inc()
}
