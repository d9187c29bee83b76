// Package metrics provides Prometheus metrics for handout runs, written to
// a node-exporter textfile when a run ends.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the metrics of one process. Each instance owns its
// registry, so tests and repeated runs do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	// Plan metrics
	ContainersTotal prometheus.Counter
	SamplesTotal    prometheus.Counter
	PlannedTotal    *prometheus.CounterVec
	CollisionsTotal prometheus.Counter
	UnmatchedTotal  prometheus.Counter
	SkippedTotal    prometheus.Counter

	// Execution metrics
	MovedTotal    *prometheus.CounterVec
	CopiedTotal   prometheus.Counter
	PrunedTotal   prometheus.Counter
	LeftoverFiles prometheus.Gauge

	// Run metrics
	RunDuration      prometheus.Gauge
	RunSuccess       prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{Registry: reg}

	m.ContainersTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_containers_total",
		Help: "Source containers scanned",
	})
	m.SamplesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_samples_total",
		Help: "Distinct sample identifiers found across containers",
	})
	m.PlannedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sbdatacore_planned_moves_total",
		Help: "Moves planned, by kind",
	}, []string{"kind"})
	m.CollisionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_collisions_total",
		Help: "Sources selected by more than one sample",
	})
	m.UnmatchedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_unmatched_files_total",
		Help: "Files no sample selected",
	})
	m.SkippedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_skipped_containers_total",
		Help: "Containers skipped for an unusable date stamp",
	})

	m.MovedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sbdatacore_moved_total",
		Help: "Entries moved, by kind",
	}, []string{"kind"})
	m.CopiedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_cross_device_moves_total",
		Help: "Moves that fell back to copy and remove",
	})
	m.PrunedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sbdatacore_pruned_directories_total",
		Help: "Empty source directories removed",
	})
	m.LeftoverFiles = factory.NewGauge(prometheus.GaugeOpts{
		Name: "sbdatacore_leftover_files",
		Help: "Files remaining below the incoming root after the last run",
	})

	m.RunDuration = factory.NewGauge(prometheus.GaugeOpts{
		Name: "sbdatacore_run_duration_seconds",
		Help: "Wall time of the last run",
	})
	m.RunSuccess = factory.NewGauge(prometheus.GaugeOpts{
		Name: "sbdatacore_run_success",
		Help: "1 if the last run emptied the incoming root, 0 otherwise",
	})
	m.LastRunTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "sbdatacore_last_run_timestamp_seconds",
		Help: "Unix time the last run finished",
	})
	return m
}

// ObserveRun records the outcome of a run that started at start.
func (m *Metrics) ObserveRun(start time.Time, success bool) {
	now := time.Now()
	m.RunDuration.Set(now.Sub(start).Seconds())
	m.LastRunTimestamp.Set(float64(now.Unix()))
	if success {
		m.RunSuccess.Set(1)
	} else {
		m.RunSuccess.Set(0)
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
