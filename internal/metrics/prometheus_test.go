package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rgehrsitz/homesim/internal/montecarlo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ montecarlo.Recorder = (*Recorder)(nil)

func TestRecorder_Counts(t *testing.T) {
	r := New()
	r.TrialFinished("house_purchase", false, false, false, 2*time.Millisecond)
	r.TrialFinished("house_purchase", true, true, false, 3*time.Millisecond)
	r.TrialFinished("house_purchase", true, true, true, time.Millisecond)
	r.BatchFinished("house_purchase", 3, 1500*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.trialsTotal.WithLabelValues("house_purchase")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("house_purchase", "bankrupt")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("house_purchase", "principal_invaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("house_purchase", "infeasible")))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.batchDuration.WithLabelValues("house_purchase")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.trialDuration))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.TrialFinished("normal_rental", false, true, false, time.Millisecond)

	path := filepath.Join(t.TempDir(), "homesim.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `homesim_trials_total{strategy="normal_rental"} 1`)
	assert.Contains(t, string(data), `outcome="principal_invaded"`)
}
