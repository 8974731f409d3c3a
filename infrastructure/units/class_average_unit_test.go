package units

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-gradebook/internal/domain"
)

func TestClassAverageUnit_Execute(t *testing.T) {
	// 130 points over 11 scores.
	const fixtureAverage = 130.0 / 11.0

	tests := []struct {
		name        string
		config      ClassAverageConfig
		wantPassed  bool
		wantEntries []string
	}{
		{
			name:        "default gate fails below the pass mark",
			config:      DefaultClassAverageConfig(),
			wantPassed:  false,
			wantEntries: []string{"R3", "R1", "R2", "R4"},
		},
		{
			name:       "lower gate passes without standings",
			config:     ClassAverageConfig{MinAverage: 10},
			wantPassed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewClassAverageUnit("average", tt.config)
			require.NoError(t, err)

			report, err := unit.Execute(context.Background(), newFixtureClassroom(t))
			require.NoError(t, err)

			assert.Equal(t, domain.ReportClassAverage, report.Kind)
			assert.InDelta(t, fixtureAverage, report.Value, 1e-9)
			assert.Equal(t, tt.wantPassed, report.Passed)
			if tt.wantEntries == nil {
				assert.Empty(t, report.Entries)
				return
			}
			assert.Equal(t, tt.wantEntries, entryRegNos(report.Entries))
			assert.InDelta(t, 6.0, report.Entries[len(report.Entries)-1].Value, 1e-9)
		})
	}
}

func TestClassAverageUnit_StandingsSkipUnscoredStudents(t *testing.T) {
	classroom := domain.NewClassroom()
	for _, regNo := range []string{"R1", "R2"} {
		s, err := domain.NewStudent("Student "+regNo, regNo)
		require.NoError(t, err)
		require.NoError(t, classroom.AddStudent(s))
	}

	unit, err := NewClassAverageUnit("average", DefaultClassAverageConfig())
	require.NoError(t, err)

	report, err := unit.Execute(context.Background(), classroom)
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.Zero(t, report.Value)
}

func TestClassAverageUnit_EmptyClassroom(t *testing.T) {
	unit, err := NewClassAverageUnit("average", ClassAverageConfig{MinAverage: 0})
	require.NoError(t, err)

	report, err := unit.Execute(context.Background(), domain.NewClassroom())
	require.NoError(t, err)
	assert.Zero(t, report.Value)
	assert.True(t, report.Passed)
}

func TestNewClassAverageUnit_Validation(t *testing.T) {
	_, err := NewClassAverageUnit("average", ClassAverageConfig{MinAverage: 21})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max")

	_, err = NewClassAverageUnit("", DefaultClassAverageConfig())
	assert.ErrorIs(t, err, ErrEmptyUnitName)
}

func TestCreateClassAverageUnit(t *testing.T) {
	unit, err := CreateClassAverageUnit("average", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultClassAverageConfig(), unit.config)

	unit, err = CreateClassAverageUnit("average", map[string]any{"min_average": 8.5, "include_standings": false})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, unit.config.MinAverage, 1e-9)
	assert.False(t, unit.config.IncludeStandings)
}
