package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-gradebook/internal/ports"
)

// newTestMetrics registers a fresh metrics set on its own registry.
func newTestMetrics(t *testing.T) (*PrometheusMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)
	return pm, reg
}

func TestNewPrometheusMetrics(t *testing.T) {
	pm, _ := newTestMetrics(t)

	assert.NotNil(t, pm.unitLatency)
	assert.NotNil(t, pm.runsTotal)
	assert.NotNil(t, pm.unitFailures)
	assert.NotNil(t, pm.operationCounter)
	assert.NotNil(t, pm.classroomGauges)
	assert.NotNil(t, pm.reportEntries)
	assert.NotNil(t, pm.observations)

	var _ ports.MetricsCollector = pm
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg)
	require.Error(t, err)

	var metricsErr *ports.MetricsError
	require.True(t, errors.As(err, &metricsErr))
	assert.Equal(t, "register", metricsErr.Operation)

	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))
}

func TestNewPrometheusMetrics_FailedRegistrationLeavesRegistryClean(t *testing.T) {
	reg := prometheus.NewRegistry()
	blocker := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "report_entries",
		Help:      "Conflicting collector.",
	})
	require.NoError(t, reg.Register(blocker))

	for range 3 {
		_, err := NewPrometheusMetrics(reg)
		require.Error(t, err)

		var metricsErr *ports.MetricsError
		require.True(t, errors.As(err, &metricsErr))
		assert.Equal(t, "gradebook_report_entries", metricsErr.Metric)
	}

	require.True(t, reg.Unregister(blocker))
	_, err := NewPrometheusMetrics(reg)
	assert.NoError(t, err, "collectors registered before the failure were rolled back")
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	tests := []struct {
		name     string
		labels   map[string]string
		wantUnit string
	}{
		{name: "with unit label", labels: map[string]string{"unit": "podium"}, wantUnit: "podium"},
		{name: "without unit label", labels: map[string]string{"other": "value"}, wantUnit: "unknown"},
		{name: "with empty unit label", labels: map[string]string{"unit": ""}, wantUnit: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, _ := newTestMetrics(t)

			pm.RecordLatency("unit_execute", 120*time.Millisecond, tt.labels)

			// Looking up the expected series must not create a second one.
			_, err := pm.unitLatency.GetMetricWithLabelValues("unit_execute", tt.wantUnit)
			require.NoError(t, err)
			assert.Equal(t, 1, testutil.CollectAndCount(pm.unitLatency))
		})
	}
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	pm, _ := newTestMetrics(t)

	pm.RecordCounter("report_runs_total", 1, map[string]string{"plan": "term", "status": "success"})
	pm.RecordCounter("report_runs_total", 1, map[string]string{"plan": "term", "status": "success"})
	pm.RecordCounter("report_runs_total", 1, map[string]string{"plan": "term", "status": "failed"})
	pm.RecordCounter("unit_failures_total", 1, map[string]string{"unit": "stats", "type": "course_stats"})
	pm.RecordCounter("exports_total", 3, map[string]string{"unit": "xlsx"})

	assert.InDelta(t, 2.0, testutil.ToFloat64(pm.runsTotal.WithLabelValues("term", "success")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(pm.runsTotal.WithLabelValues("term", "failed")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(pm.unitFailures.WithLabelValues("stats", "course_stats")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(pm.operationCounter.WithLabelValues("exports_total", "xlsx")), 1e-9)
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm, _ := newTestMetrics(t)

	pm.RecordGauge("classroom_students", 30, map[string]string{"plan": "term"})
	pm.RecordGauge("classroom_students", 28, map[string]string{"plan": "term"})
	pm.RecordGauge("classroom_average", 12.5, map[string]string{"plan": "term"})

	assert.InDelta(t, 28.0, testutil.ToFloat64(pm.classroomGauges.WithLabelValues("classroom_students", "term")), 1e-9)
	assert.InDelta(t, 12.5, testutil.ToFloat64(pm.classroomGauges.WithLabelValues("classroom_average", "term")), 1e-9)
}

func TestPrometheusMetrics_RecordHistogram(t *testing.T) {
	pm, _ := newTestMetrics(t)

	pm.RecordHistogram("report_entries", 3, map[string]string{"unit": "podium"})
	pm.RecordHistogram("report_entries", 5, map[string]string{"unit": "podium"})
	pm.RecordHistogram("score_spread", 4, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(pm.reportEntries))
	assert.Equal(t, 1, testutil.CollectAndCount(pm.observations))
}

func TestPrometheusMetrics_Gather(t *testing.T) {
	pm, reg := newTestMetrics(t)

	pm.RecordCounter("report_runs_total", 1, map[string]string{"plan": "term", "status": "success"})

	count, err := testutil.GatherAndCount(reg, "gradebook_report_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
