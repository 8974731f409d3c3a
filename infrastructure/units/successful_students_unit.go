package units

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.Unit = (*SuccessfulStudentsUnit)(nil)

// SuccessfulStudentsUnit lists the students whose average reaches
// domain.SuccessAverage with fewer than domain.MaxFailedCourses failures,
// best average first. Each entry carries the student's average and the
// courses they still failed.
type SuccessfulStudentsUnit struct {
	name   string
	config SuccessfulStudentsConfig
}

// SuccessfulStudentsConfig defines the configuration parameters for the
// SuccessfulStudentsUnit.
type SuccessfulStudentsConfig struct {
	// Limit caps the number of entries. Zero returns every successful student.
	Limit int `yaml:"limit" json:"limit" validate:"min=0,max=10000"`
}

// NewSuccessfulStudentsUnit creates a new SuccessfulStudentsUnit.
func NewSuccessfulStudentsUnit(name string, config SuccessfulStudentsConfig) (*SuccessfulStudentsUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &SuccessfulStudentsUnit{name: name, config: config}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *SuccessfulStudentsUnit) Name() string { return u.name }

// Execute collects the successful students of classroom.
// The report value is the number of successful students before the limit applies.
func (u *SuccessfulStudentsUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	ctx, span := startSpan(ctx, TypeSuccessfulStudents, u.name,
		attribute.Int("config.limit", u.config.Limit),
	)
	defer span.End()

	if err := checkInput(ctx, classroom); err != nil {
		return nil, failSpan(span, err)
	}

	successful := classroom.SuccessfulStudents()
	total := len(successful)
	if u.config.Limit > 0 && len(successful) > u.config.Limit {
		successful = successful[:u.config.Limit]
	}

	report := newReport(u.name, domain.ReportSuccessfulStudents)
	report.Value = float64(total)
	report.Entries = domain.EntriesFromStudents(successful, (*domain.Student).AverageScore)
	for i, s := range successful {
		if failed := s.FailedCourses(); len(failed) > 0 {
			report.Entries[i].Courses = failed
		}
	}

	finishSpan(span, report)
	return report, nil
}

// Validate checks if the unit is properly configured and ready for execution.
func (u *SuccessfulStudentsUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DefaultSuccessfulStudentsConfig returns a config listing every successful student.
func DefaultSuccessfulStudentsConfig() SuccessfulStudentsConfig {
	return SuccessfulStudentsConfig{Limit: 0}
}

// CreateSuccessfulStudentsUnit is a factory function that creates a
// SuccessfulStudentsUnit from a configuration map.
func CreateSuccessfulStudentsUnit(id string, config map[string]any) (*SuccessfulStudentsUnit, error) {
	cfg := DefaultSuccessfulStudentsConfig()
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewSuccessfulStudentsUnit(id, cfg)
}
