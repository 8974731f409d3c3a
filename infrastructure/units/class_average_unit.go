package units

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.Unit = (*ClassAverageUnit)(nil)

// ClassAverageUnit reports the classroom average with a quality gate.
//
// The headline value is the flattened mean of every score of every student
// (domain.Classroom.AverageScore), not the mean of per-student averages.
// The report passes when that value reaches MinAverage. With IncludeStandings,
// entries rank every scored student by their own average, highest first, ties
// by registration number, so the report doubles as a class-wide standings
// table. Students without any score are left out.
type ClassAverageUnit struct {
	name   string
	config ClassAverageConfig
}

// ClassAverageConfig controls the quality gate of the ClassAverageUnit.
type ClassAverageConfig struct {
	// MinAverage is the classroom average (0-20) required for the report
	// to pass. Use 0 to disable the gate.
	MinAverage float64 `yaml:"min_average" json:"min_average" validate:"min=0,max=20"`

	// IncludeStandings adds one entry per scored student when true.
	IncludeStandings bool `yaml:"include_standings" json:"include_standings"`
}

// NewClassAverageUnit creates a new ClassAverageUnit with validated configuration.
// Returns ErrEmptyUnitName if name is empty, or configuration validation
// errors if constraints are violated.
func NewClassAverageUnit(name string, config ClassAverageConfig) (*ClassAverageUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &ClassAverageUnit{name: name, config: config}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *ClassAverageUnit) Name() string { return u.name }

// Execute computes the classroom average and applies the MinAverage gate.
// An empty classroom averages 0 and therefore only passes when the gate is disabled.
func (u *ClassAverageUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	ctx, span := startSpan(ctx, TypeClassAverage, u.name,
		attribute.Float64("config.min_average", u.config.MinAverage),
	)
	defer span.End()

	if err := checkInput(ctx, classroom); err != nil {
		return nil, failSpan(span, err)
	}

	report := newReport(u.name, domain.ReportClassAverage)
	report.Value = classroom.AverageScore()
	report.Passed = report.Value >= u.config.MinAverage

	if u.config.IncludeStandings {
		students := slices.DeleteFunc(classroom.Students(), func(s *domain.Student) bool {
			return s.CourseCount() == 0
		})
		slices.SortStableFunc(students, func(a, b *domain.Student) int {
			if diff := cmp.Compare(b.AverageScore(), a.AverageScore()); diff != 0 {
				return diff
			}
			return strings.Compare(a.RegistrationNumber(), b.RegistrationNumber())
		})
		report.Entries = domain.EntriesFromStudents(students, (*domain.Student).AverageScore)
	}

	finishSpan(span, report)
	return report, nil
}

// Validate verifies the unit is properly configured.
func (u *ClassAverageUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DefaultClassAverageConfig returns a ClassAverageConfig with the pass mark
// as gate and standings enabled.
func DefaultClassAverageConfig() ClassAverageConfig {
	return ClassAverageConfig{
		MinAverage:       domain.SuccessAverage,
		IncludeStandings: true,
	}
}

// CreateClassAverageUnit creates a ClassAverageUnit from a configuration map.
// This is the boundary adapter for YAML/JSON configuration.
func CreateClassAverageUnit(id string, config map[string]any) (*ClassAverageUnit, error) {
	cfg := DefaultClassAverageConfig()
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewClassAverageUnit(id, cfg)
}
