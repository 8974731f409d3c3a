package units

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-gradebook/internal/domain"
)

func TestAtRiskUnit_Execute(t *testing.T) {
	tests := []struct {
		name       string
		config     AtRiskConfig
		wantRegNos []string
		wantValue  float64
	}{
		{
			name:       "weakest average first",
			config:     DefaultAtRiskConfig(),
			wantRegNos: []string{"R4", "R2"},
			wantValue:  2,
		},
		{
			name:       "unscored students included on request",
			config:     AtRiskConfig{IncludeUnscored: true},
			wantRegNos: []string{"R5", "R4", "R2"},
			wantValue:  3,
		},
		{
			name:       "max entries truncates",
			config:     AtRiskConfig{MaxEntries: 1},
			wantRegNos: []string{"R4"},
			wantValue:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewAtRiskUnit("risk", tt.config)
			require.NoError(t, err)

			report, err := unit.Execute(context.Background(), newFixtureClassroom(t))
			require.NoError(t, err)

			assert.Equal(t, domain.ReportAtRisk, report.Kind)
			assert.Equal(t, tt.wantRegNos, entryRegNos(report.Entries))
			assert.InDelta(t, tt.wantValue, report.Value, 1e-9)
			assert.False(t, report.Passed)
		})
	}
}

func TestAtRiskUnit_EntriesListFailedCourses(t *testing.T) {
	unit, err := NewAtRiskUnit("risk", DefaultAtRiskConfig())
	require.NoError(t, err)

	report, err := unit.Execute(context.Background(), newFixtureClassroom(t))
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	assert.Equal(t, []string{"chemistry", "math", "physics"}, report.Entries[0].Courses)
	assert.InDelta(t, 6.0, report.Entries[0].Value, 1e-9)
	assert.Equal(t, []string{"math", "physics"}, report.Entries[1].Courses)
}

func TestAtRiskUnit_NobodyAtRisk(t *testing.T) {
	s, err := domain.NewStudent("Alice", "R1")
	require.NoError(t, err)
	require.NoError(t, s.SetScore("math", 15))
	classroom := domain.NewClassroom()
	require.NoError(t, classroom.AddStudent(s))

	unit, err := NewAtRiskUnit("risk", DefaultAtRiskConfig())
	require.NoError(t, err)

	report, err := unit.Execute(context.Background(), classroom)
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Entries)
}

func TestCreateAtRiskUnit(t *testing.T) {
	unit, err := CreateAtRiskUnit("risk", map[string]any{"max_entries": 4, "include_unscored": true})
	require.NoError(t, err)
	assert.Equal(t, AtRiskConfig{MaxEntries: 4, IncludeUnscored: true}, unit.config)
	assert.NoError(t, unit.Validate())

	_, err = CreateAtRiskUnit("risk", map[string]any{"max_entries": -2})
	assert.Error(t, err)
}
