package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSampleRoster(t *testing.T) {
	classroom, err := GenerateSampleRoster(50, nil, 42)
	require.NoError(t, err)

	assert.Equal(t, 50, classroom.CountStudents())
	for _, course := range classroom.Courses() {
		assert.Contains(t, DefaultCourses, course)
	}

	for _, s := range classroom.Students() {
		for _, score := range s.Scores() {
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 20)
		}
	}
}

func TestGenerateSampleRoster_Deterministic(t *testing.T) {
	a, err := GenerateSampleRoster(20, []string{"math", "art"}, 7)
	require.NoError(t, err)
	b, err := GenerateSampleRoster(20, []string{"math", "art"}, 7)
	require.NoError(t, err)

	for _, s := range a.Students() {
		other, ok := b.Student(s.RegistrationNumber())
		require.True(t, ok)
		assert.Equal(t, s.Scores(), other.Scores())
	}
}

func TestComputeRosterStatistics(t *testing.T) {
	classroom, err := GenerateSampleRoster(30, nil, 1)
	require.NoError(t, err)

	stats := ComputeRosterStatistics(classroom)
	assert.Equal(t, 30, stats.Students)
	assert.Equal(t, classroom.Courses(), stats.Courses)
	assert.InDelta(t, classroom.AverageScore(), stats.ClassAverage, 1e-9)
	assert.Equal(t, len(classroom.SuccessfulStudents()), stats.SuccessfulCount)
	assert.Positive(t, stats.ScoresRecorded)
	assert.LessOrEqual(t, stats.ScoresRecorded, 30*len(DefaultCourses))
}

func TestMockMetricsCollector(t *testing.T) {
	m := NewMockMetricsCollector()
	m.RecordCounter("runs", 1, map[string]string{"status": "ok"})
	m.RecordCounter("runs", 2, map[string]string{"status": "failed"})
	m.RecordGauge("students", 5, nil)

	assert.Len(t, m.Calls(), 3)
	assert.Len(t, m.Find("runs"), 2)
	assert.InDelta(t, 3.0, m.Sum("runs", nil), 1e-9)
	assert.InDelta(t, 2.0, m.Sum("runs", map[string]string{"status": "failed"}), 1e-9)
}
