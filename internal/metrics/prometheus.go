// Package metrics records Monte Carlo batch statistics with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements montecarlo.Recorder using Prometheus collectors on a
// private registry, so a batch run can be exported as a textfile
type Recorder struct {
	registry      *prometheus.Registry
	trialsTotal   *prometheus.CounterVec
	outcomesTotal *prometheus.CounterVec
	trialDuration *prometheus.HistogramVec
	batchDuration *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homesim_trials_total",
				Help: "Total number of Monte Carlo trials run",
			},
			[]string{"strategy"},
		),
		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homesim_trial_outcomes_total",
				Help: "Trials ending in bankruptcy, principal invasion or infeasibility",
			},
			[]string{"strategy", "outcome"},
		),
		trialDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homesim_trial_duration_seconds",
				Help:    "Duration of one ledger run in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"strategy"},
		),
		batchDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "homesim_batch_duration_seconds",
				Help: "Wall time of the last batch per strategy",
			},
			[]string{"strategy"},
		),
	}
	r.registry.MustRegister(r.trialsTotal, r.outcomesTotal, r.trialDuration, r.batchDuration)
	return r
}

// TrialFinished records one finished trial
func (r *Recorder) TrialFinished(strategy string, bankrupt, invaded, infeasible bool, elapsed time.Duration) {
	r.trialsTotal.WithLabelValues(strategy).Inc()
	if bankrupt {
		r.outcomesTotal.WithLabelValues(strategy, "bankrupt").Inc()
	}
	if invaded {
		r.outcomesTotal.WithLabelValues(strategy, "principal_invaded").Inc()
	}
	if infeasible {
		r.outcomesTotal.WithLabelValues(strategy, "infeasible").Inc()
	}
	r.trialDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// BatchFinished records the wall time of a whole batch
func (r *Recorder) BatchFinished(strategy string, _ int, elapsed time.Duration) {
	r.batchDuration.WithLabelValues(strategy).Set(elapsed.Seconds())
}

// WriteTextfile writes every collected metric in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
