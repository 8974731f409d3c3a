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

var _ ports.Unit = (*AtRiskUnit)(nil)

// AtRiskUnit lists the students who are not successful, weakest average
// first, ties by registration number. Each entry lists the student's failed
// courses in decreasing score order. The report passes only when nobody is
// at risk.
type AtRiskUnit struct {
	name   string
	config AtRiskConfig
}

// AtRiskConfig defines the configuration parameters for the AtRiskUnit.
type AtRiskConfig struct {
	// MaxEntries caps the number of entries. Zero lists every at-risk student.
	MaxEntries int `yaml:"max_entries" json:"max_entries" validate:"min=0,max=10000"`

	// IncludeUnscored also lists students without any recorded score.
	IncludeUnscored bool `yaml:"include_unscored" json:"include_unscored"`
}

// NewAtRiskUnit creates a new AtRiskUnit with the specified configuration.
func NewAtRiskUnit(name string, config AtRiskConfig) (*AtRiskUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &AtRiskUnit{name: name, config: config}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *AtRiskUnit) Name() string { return u.name }

// Execute collects at-risk students. The report value is the number of
// at-risk students before MaxEntries applies.
func (u *AtRiskUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	ctx, span := startSpan(ctx, TypeAtRisk, u.name,
		attribute.Int("config.max_entries", u.config.MaxEntries),
	)
	defer span.End()

	if err := checkInput(ctx, classroom); err != nil {
		return nil, failSpan(span, err)
	}

	atRisk := make([]*domain.Student, 0)
	for _, s := range classroom.Students() {
		if s.IsSuccessful() {
			continue
		}
		if s.CourseCount() == 0 && !u.config.IncludeUnscored {
			continue
		}
		atRisk = append(atRisk, s)
	}

	slices.SortFunc(atRisk, func(a, b *domain.Student) int {
		if diff := cmp.Compare(a.AverageScore(), b.AverageScore()); diff != 0 {
			return diff
		}
		return strings.Compare(a.RegistrationNumber(), b.RegistrationNumber())
	})

	total := len(atRisk)
	if u.config.MaxEntries > 0 && len(atRisk) > u.config.MaxEntries {
		atRisk = atRisk[:u.config.MaxEntries]
	}

	report := newReport(u.name, domain.ReportAtRisk)
	report.Value = float64(total)
	report.Passed = total == 0
	report.Entries = domain.EntriesFromStudents(atRisk, (*domain.Student).AverageScore)
	for i, s := range atRisk {
		if failed := s.FailedCourses(); len(failed) > 0 {
			report.Entries[i].Courses = failed
		}
	}

	finishSpan(span, report)
	return report, nil
}

// Validate checks if the unit is properly configured and ready for execution.
func (u *AtRiskUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DefaultAtRiskConfig returns a config listing every scored at-risk student.
func DefaultAtRiskConfig() AtRiskConfig {
	return AtRiskConfig{MaxEntries: 0, IncludeUnscored: false}
}

// CreateAtRiskUnit creates an AtRiskUnit from a configuration map.
func CreateAtRiskUnit(id string, config map[string]any) (*AtRiskUnit, error) {
	cfg := DefaultAtRiskConfig()
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewAtRiskUnit(id, cfg)
}
