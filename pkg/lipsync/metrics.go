package lipsync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records node outcomes and engine latency. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "videoaudio",
				Subsystem: "lipsync",
				Name:      "outcomes_total",
				Help:      "Number of node executions by engine outcome.",
			},
			[]string{"outcome"},
		),
		latency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "videoaudio",
				Subsystem: "lipsync",
				Name:      "engine_duration_seconds",
				Help:      "Engine call duration in seconds.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
	}
}

func (m *Metrics) observeOutcome(k OutcomeKind) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(k.String()).Inc()
}

func (m *Metrics) observeLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}
