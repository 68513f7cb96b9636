package report

// Boring numbers only. Every sample is explainable by one Result.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeSuccess       = "success"
	OutcomeFailure       = "failure"
	OutcomeSignaled      = "signaled"
	OutcomeMissingTarget = "missing_target"
	OutcomeLaunchError   = "launch_error"
)

// Metrics holds per-process delegation metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	delegations  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lastExitCode *prometheus.GaugeVec
	lastRun      *prometheus.GaugeVec
}

// NewMetrics creates and registers the delegation collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		delegations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceres_delegations_total",
				Help: "Delegations by target and outcome",
			},
			[]string{"target", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ceres_delegation_duration_seconds",
				Help:    "Wall time of the delegated target",
				Buckets: prometheus.ExponentialBuckets(0.05, 4, 8),
			},
			[]string{"target"},
		),
		lastExitCode: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ceres_delegation_last_exit_code",
				Help: "Exit code relayed from the most recent run of the target",
			},
			[]string{"target"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ceres_delegation_last_run_timestamp_seconds",
				Help: "Unix time the most recent run of the target finished",
			},
			[]string{"target"},
		),
	}

	m.registry.MustRegister(m.delegations, m.duration, m.lastExitCode, m.lastRun)
	return m
}

// RecordResult updates every collector from a single Result.
func (m *Metrics) RecordResult(r *Result) {
	if m == nil || r == nil {
		return
	}
	m.delegations.WithLabelValues(r.Target, r.Outcome()).Inc()
	m.duration.WithLabelValues(r.Target).Observe(r.DurationSeconds)
	m.lastExitCode.WithLabelValues(r.Target).Set(float64(r.ExitCode))
	m.lastRun.WithLabelValues(r.Target).Set(float64(r.EndTime.Unix()))
}

// RecordFailure counts a delegation that never reached the target.
func (m *Metrics) RecordFailure(target, outcome string) {
	if m == nil {
		return
	}
	m.delegations.WithLabelValues(target, outcome).Inc()
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry in node_exporter textfile format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
