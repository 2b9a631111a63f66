// Package metrics captures declaration-sweep health signals.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BatchMetrics tracks the monthly declaration sweep.
type BatchMetrics struct {
	runs        prometheus.Counter
	runDuration prometheus.Histogram
	companies   *prometheus.CounterVec
	errors      *prometheus.CounterVec
}

var (
	batchOnce sync.Once
	batch     *BatchMetrics
)

// Batch returns the process-wide sweep metrics.
func Batch() *BatchMetrics {
	batchOnce.Do(func() {
		factory := promauto.With(prometheus.DefaultRegisterer)
		batch = &BatchMetrics{
			runs: factory.NewCounter(prometheus.CounterOpts{
				Name: "tributo_declaration_runs_total",
				Help: "Number of declaration sweep runs.",
			}),
			runDuration: factory.NewHistogram(prometheus.HistogramOpts{
				Name:    "tributo_declaration_run_duration_seconds",
				Help:    "Duration of declaration sweep runs.",
				Buckets: prometheus.DefBuckets,
			}),
			companies: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "tributo_declaration_companies_total",
				Help: "Companies processed by outcome.",
			}, []string{"outcome"}),
			errors: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "tributo_declaration_errors_total",
				Help: "Per-company declaration failures by reason.",
			}, []string{"reason"}),
		}
	})
	return batch
}

func (m *BatchMetrics) IncRun() { m.runs.Inc() }

func (m *BatchMetrics) ObserveRunDuration(d time.Duration) {
	m.runDuration.Observe(d.Seconds())
}

func (m *BatchMetrics) IncCompany(outcome string) {
	m.companies.WithLabelValues(outcome).Inc()
}

func (m *BatchMetrics) IncError(reason string) {
	m.errors.WithLabelValues(reason).Inc()
}

const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)
