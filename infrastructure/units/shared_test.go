package units

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// newFixtureClassroom builds the classroom shared by the unit tests:
//
//	R1 Alice  math 18, physics 14, chemistry 16  avg 16  successful
//	R2 Bob    math 10, physics 8,  chemistry 12  avg 10  two failures
//	R3 Carol  math 18, physics 16                avg 17  successful
//	R4 Dave   math 6,  physics 5,  chemistry 7   avg 6   three failures
//	R5 Eve    no scores
func newFixtureClassroom(t *testing.T) *domain.Classroom {
	t.Helper()

	roster := []struct {
		name, regNo string
		scores      map[string]int
	}{
		{"Alice", "R1", map[string]int{"math": 18, "physics": 14, "chemistry": 16}},
		{"Bob", "R2", map[string]int{"math": 10, "physics": 8, "chemistry": 12}},
		{"Carol", "R3", map[string]int{"math": 18, "physics": 16}},
		{"Dave", "R4", map[string]int{"math": 6, "physics": 5, "chemistry": 7}},
		{"Eve", "R5", nil},
	}

	classroom := domain.NewClassroom()
	for _, r := range roster {
		s, err := domain.NewStudent(r.name, r.regNo)
		require.NoError(t, err)
		for course, score := range r.scores {
			require.NoError(t, s.SetScore(course, score))
		}
		require.NoError(t, classroom.AddStudent(s))
	}
	return classroom
}

// entryRegNos extracts registration numbers from report entries in order.
func entryRegNos(entries []domain.ReportEntry) []string {
	regNos := make([]string, 0, len(entries))
	for _, e := range entries {
		regNos = append(regNos, e.RegistrationNumber)
	}
	return regNos
}

func TestDecodeConfig(t *testing.T) {
	defaults := TopScorersConfig{Course: "math", Limit: 3, MatchThreshold: 0.8}

	tests := []struct {
		name     string
		config   map[string]any
		want     TopScorersConfig
		errorMsg string
	}{
		{
			name:   "empty map keeps defaults",
			config: map[string]any{},
			want:   defaults,
		},
		{
			name:   "nil map keeps defaults",
			config: nil,
			want:   defaults,
		},
		{
			name:   "overrides provided fields",
			config: map[string]any{"course": "physics", "limit": 5, "fuzzy_course": true},
			want:   TopScorersConfig{Course: "physics", Limit: 5, FuzzyCourse: true, MatchThreshold: 0.8},
		},
		{
			name:     "rejects unknown fields",
			config:   map[string]any{"corse": "math"},
			errorMsg: "check for typos",
		},
		{
			name:     "rejects invalid values",
			config:   map[string]any{"limit": 0},
			errorMsg: "configuration validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults
			err := decodeConfig(tt.config, &cfg)

			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestNewReport(t *testing.T) {
	a := newReport("unit-a", domain.ReportAtRisk)
	b := newReport("unit-a", domain.ReportAtRisk)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "every report gets a fresh ID")
	assert.Equal(t, "unit-a", a.Unit)
	assert.Equal(t, domain.ReportAtRisk, a.Kind)
	assert.True(t, a.Passed)
	assert.False(t, a.Timestamp.IsZero())
}

func TestStartSpan_ReturnsContextCarryingSpan(t *testing.T) {
	ctx, span := startSpan(context.Background(), TypeTopScorers, "podium")
	defer span.End()

	assert.Equal(t, span, trace.SpanFromContext(ctx))
}

func TestUnits_ExecuteHonorsCancelledSpanContext(t *testing.T) {
	create := map[string]func() (ports.Unit, error){
		TypeTopScorers: func() (ports.Unit, error) {
			return CreateTopScorersUnit("u", map[string]any{"course": "math"})
		},
		TypeSuccessfulStudents: func() (ports.Unit, error) { return CreateSuccessfulStudentsUnit("u", nil) },
		TypeClassAverage:       func() (ports.Unit, error) { return CreateClassAverageUnit("u", nil) },
		TypeCourseStats: func() (ports.Unit, error) {
			return CreateCourseStatsUnit("u", map[string]any{"course": "math"})
		},
		TypeAtRisk: func() (ports.Unit, error) { return CreateAtRiskUnit("u", nil) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for unitType, newUnit := range create {
		t.Run(unitType, func(t *testing.T) {
			unit, err := newUnit()
			require.NoError(t, err)

			report, err := unit.Execute(ctx, newFixtureClassroom(t))
			assert.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, report)
		})
	}
}
