// Package telemetry exposes Prometheus metrics for a running search.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridsearch"

// Outcome labels for the combinations counter.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	combinations *prometheus.CounterVec
	trials       prometheus.Counter
	trialSeconds prometheus.Histogram
	bestSeconds  prometheus.Gauge
}

// New registers the search metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		combinations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_total",
			Help:      "Combinations trialed, by outcome.",
		}, []string{"outcome"}),
		trials: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Trial iterations executed.",
		}),
		trialSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_seconds",
			Help:      "Training time reported per trial iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		bestSeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_mean_seconds",
			Help:      "Mean trial time of the best accepted combination so far.",
		}),
	}
}

func (m *Metrics) ObserveTrial(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.trials.Inc()
	m.trialSeconds.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCombination(accepted bool) {
	if m == nil {
		return
	}
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	m.combinations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetBest(meanSeconds float64) {
	if m == nil {
		return
	}
	m.bestSeconds.Set(meanSeconds)
}
