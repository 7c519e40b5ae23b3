package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewSyncMetrics(registry)
	require.NoError(t, err)

	m.ObserveRun("create", 20*time.Millisecond)
	m.ObserveRun("create", 30*time.Millisecond)
	m.ObserveRun("delete", time.Millisecond)
	m.IncrementFailures(FailureSummarize)
	m.IncrementProfilesCreated()
	m.IncrementProfilesDeleted()
	m.AddOrphansSwept(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollaboratorFailures.WithLabelValues(FailureSummarize)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfilesCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OrphanProfilesSwept))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestSyncMetrics_DoubleRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewSyncMetrics(registry)
	require.NoError(t, err)

	_, err = NewSyncMetrics(registry)
	assert.Error(t, err)
}

func TestSyncMetrics_Nil(t *testing.T) {
	var m *SyncMetrics
	assert.NotPanics(t, func() {
		m.ObserveRun("update", time.Second)
		m.IncrementFailures(FailureExtract)
		m.IncrementProfilesCreated()
		m.IncrementProfilesDeleted()
		m.IncrementProfilesRegenerated()
		m.AddOrphansSwept(1)
	})
}
