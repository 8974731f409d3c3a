package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// mockRosterLoader implements RosterLoader from an in-memory table.
type mockRosterLoader struct {
	rows map[string]map[string]int // registration number -> scores
}

func (m *mockRosterLoader) Load(ctx context.Context, path string) (*domain.Classroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.rows) == 0 {
		return nil, NewRosterError(path, 0, ErrEmptyRoster)
	}

	classroom := domain.NewClassroom()
	for regNo, scores := range m.rows {
		s, err := domain.NewStudent("Student "+regNo, regNo)
		if err != nil {
			return nil, err
		}
		for course, score := range scores {
			if err := s.SetScore(course, score); err != nil {
				return nil, err
			}
		}
		if err := classroom.AddStudent(s); err != nil {
			return nil, err
		}
	}
	return classroom, nil
}

// mockMetricsCollector implements MetricsCollector
type mockMetricsCollector struct {
	latencies  map[string]time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		latencies:  make(map[string]time.Duration),
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *mockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.latencies[operation] = duration
}

func (m *mockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.counters[metric] += value
}

func (m *mockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.gauges[metric] = value
}

func (m *mockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.histograms[metric] = append(m.histograms[metric], value)
}

func TestRosterLoader_Interface(t *testing.T) {
	var _ RosterLoader = (*mockRosterLoader)(nil)

	loader := &mockRosterLoader{rows: map[string]map[string]int{
		"R1": {"Math": 18},
		"R2": {"Math": 9, "Bio": 14},
	}}

	classroom, err := loader.Load(context.Background(), "memory")
	require.NoError(t, err)
	assert.Equal(t, 2, classroom.CountStudents())

	_, err = (&mockRosterLoader{}).Load(context.Background(), "memory")
	assert.ErrorIs(t, err, ErrEmptyRoster)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.Load(ctx, "memory")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricsCollector_Interface(t *testing.T) {
	var _ MetricsCollector = (*mockMetricsCollector)(nil)

	collector := newMockMetricsCollector()
	labels := map[string]string{"unit": "avg"}

	collector.RecordLatency("unit_execute", 15*time.Millisecond, labels)
	collector.RecordCounter("reports_total", 1, labels)
	collector.RecordCounter("reports_total", 1, labels)
	collector.RecordGauge("classroom_students", 30, labels)
	collector.RecordHistogram("report_entries", 5, labels)

	assert.Equal(t, 15*time.Millisecond, collector.latencies["unit_execute"])
	assert.Equal(t, 2.0, collector.counters["reports_total"])
	assert.Equal(t, 30.0, collector.gauges["classroom_students"])
	assert.Equal(t, []float64{5}, collector.histograms["report_entries"])
}
