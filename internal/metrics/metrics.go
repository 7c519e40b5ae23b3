// Package metrics provides the Prometheus metrics of the profile synchronization engine.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure kinds recorded by SyncMetrics.
const (
	FailureExtract   = "extract"
	FailureSummarize = "summarize"
	FailureLink      = "link"
	FailurePublish   = "publish"
	FailureCache     = "cache"
)

// SyncMetrics contains all Prometheus metrics related to synchronization runs.
// A nil *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	Runs                 *prometheus.CounterVec
	RunDuration          *prometheus.HistogramVec
	CollaboratorFailures *prometheus.CounterVec
	ProfilesCreated      prometheus.Counter
	ProfilesDeleted      prometheus.Counter
	ProfilesRegenerated  prometheus.Counter
	OrphanProfilesSwept  prometheus.Counter
}

// NewSyncMetrics creates the metrics and registers them on registry.
func NewSyncMetrics(registry prometheus.Registerer) (*SyncMetrics, error) {
	m := &SyncMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register sync metrics: %w", err)
	}
	return m, nil
}

func (m *SyncMetrics) initMetrics() {
	m.Runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notes_sync_runs_total",
		Help: "Total number of synchronization runs by operation",
	}, []string{"op"})

	m.RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notes_sync_run_duration_seconds",
		Help:    "Duration of synchronization runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	}, []string{"op"})

	m.CollaboratorFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notes_sync_failures_total",
		Help: "Total number of failures recovered during synchronization runs by kind",
	}, []string{"kind"})

	m.ProfilesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_profiles_created_total",
		Help: "Total number of profiles created by synchronization",
	})

	m.ProfilesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_profiles_deleted_total",
		Help: "Total number of orphan profiles deleted by synchronization",
	})

	m.ProfilesRegenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_profiles_regenerated_total",
		Help: "Total number of profiles whose content was regenerated",
	})

	m.OrphanProfilesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notes_orphan_profiles_swept_total",
		Help: "Total number of orphan profiles removed by the sweep job",
	})
}

// Describe implements prometheus.Collector.
func (m *SyncMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.Runs.Describe(ch)
	m.RunDuration.Describe(ch)
	m.CollaboratorFailures.Describe(ch)
	m.ProfilesCreated.Describe(ch)
	m.ProfilesDeleted.Describe(ch)
	m.ProfilesRegenerated.Describe(ch)
	m.OrphanProfilesSwept.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *SyncMetrics) Collect(ch chan<- prometheus.Metric) {
	m.Runs.Collect(ch)
	m.RunDuration.Collect(ch)
	m.CollaboratorFailures.Collect(ch)
	m.ProfilesCreated.Collect(ch)
	m.ProfilesDeleted.Collect(ch)
	m.ProfilesRegenerated.Collect(ch)
	m.OrphanProfilesSwept.Collect(ch)
}

// ObserveRun records one synchronization run.
func (m *SyncMetrics) ObserveRun(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(op).Inc()
	m.RunDuration.WithLabelValues(op).Observe(d.Seconds())
}

// IncrementFailures counts a failure that was recovered locally.
func (m *SyncMetrics) IncrementFailures(kind string) {
	if m == nil {
		return
	}
	m.CollaboratorFailures.WithLabelValues(kind).Inc()
}

func (m *SyncMetrics) IncrementProfilesCreated() {
	if m == nil {
		return
	}
	m.ProfilesCreated.Inc()
}

func (m *SyncMetrics) IncrementProfilesDeleted() {
	if m == nil {
		return
	}
	m.ProfilesDeleted.Inc()
}

func (m *SyncMetrics) IncrementProfilesRegenerated() {
	if m == nil {
		return
	}
	m.ProfilesRegenerated.Inc()
}

func (m *SyncMetrics) AddOrphansSwept(n int) {
	if m == nil {
		return
	}
	m.OrphanProfilesSwept.Add(float64(n))
}
