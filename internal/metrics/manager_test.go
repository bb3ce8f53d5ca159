package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterSessionsSaved.Inc()
	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.StorageCorrupt("workout_completions")
	m.StorageCorrupt("workout_completions")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSessionsSaved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterStorageCorrupt.WithLabelValues("workout_completions")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fitcal_test_sessions_saved")
	assert.Contains(t, names, "fitcal_test_storage_corrupt_reads")
}
