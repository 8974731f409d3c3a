package units

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.Unit = (*TopScorersUnit)(nil)

// TopScorersUnit ranks the best students of one course.
// Students with equal scores are ordered by registration number, and
// students without a score for the course are left out.
//
// When FuzzyCourse is enabled the configured course name is resolved against
// the classroom's recorded courses with a CourseMatcher before ranking.
// The unit is stateless and thread-safe for concurrent execution.
type TopScorersUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config TopScorersConfig
	// matcher is set only when FuzzyCourse is enabled.
	matcher *CourseMatcher
}

// TopScorersConfig defines the configuration parameters for the TopScorersUnit.
type TopScorersConfig struct {
	// Course is the course to rank students in.
	Course string `yaml:"course" json:"course" validate:"required,max=100"`

	// Limit is the maximum number of students to return.
	Limit int `yaml:"limit" json:"limit" validate:"min=1,max=10000"`

	// FuzzyCourse enables approximate course name resolution.
	FuzzyCourse bool `yaml:"fuzzy_course" json:"fuzzy_course"`

	// MatchThreshold is the minimum similarity (0.0-1.0) a recorded course
	// needs to be accepted as a match when FuzzyCourse is enabled.
	MatchThreshold float64 `yaml:"match_threshold" json:"match_threshold" validate:"min=0.0,max=1.0"`
}

// NewTopScorersUnit creates a new TopScorersUnit with the specified configuration.
// Returns ErrEmptyUnitName if name is empty or an error if configuration
// validation fails.
func NewTopScorersUnit(name string, config TopScorersConfig) (*TopScorersUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	unit := &TopScorersUnit{name: name, config: config}
	if config.FuzzyCourse {
		matcher, err := NewCourseMatcher(config.MatchThreshold)
		if err != nil {
			return nil, err
		}
		unit.matcher = matcher
	}
	return unit, nil
}

// Name returns the unique identifier for this unit instance.
func (u *TopScorersUnit) Name() string { return u.name }

// Execute ranks the classroom's students in the configured course and
// returns a report whose entries carry each student's course score.
func (u *TopScorersUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	ctx, span := startSpan(ctx, TypeTopScorers, u.name,
		attribute.String("config.course", u.config.Course),
		attribute.Int("config.limit", u.config.Limit),
		attribute.Bool("config.fuzzy_course", u.config.FuzzyCourse),
	)
	defer span.End()

	if err := checkInput(ctx, classroom); err != nil {
		return nil, failSpan(span, err)
	}

	course := u.resolveCourse(classroom)
	span.SetAttributes(attribute.String("report.course", course))

	top, err := classroom.TopScorers(course, u.config.Limit)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("top scorers for %q: %w", course, err))
	}

	report := newReport(u.name, domain.ReportTopScorers)
	report.Course = course
	report.Entries = domain.EntriesFromStudents(top, func(s *domain.Student) float64 {
		score, _ := s.Score(course)
		return float64(score)
	})
	if len(report.Entries) > 0 {
		report.Value = report.Entries[0].Value
	}

	finishSpan(span, report)
	return report, nil
}

// resolveCourse returns the course to rank by, applying fuzzy resolution
// when enabled. An unresolved name is used verbatim and yields an empty report.
func (u *TopScorersUnit) resolveCourse(classroom *domain.Classroom) string {
	if u.matcher == nil {
		return u.config.Course
	}
	if course, _, ok := u.matcher.Resolve(u.config.Course, classroom.Courses()); ok {
		return course
	}
	return u.config.Course
}

// Validate checks if the unit is properly configured and ready for execution.
func (u *TopScorersUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DefaultTopScorersConfig returns a TopScorersConfig with the podium as
// limit, exact course matching and a strict fuzzy threshold.
func DefaultTopScorersConfig() TopScorersConfig {
	return TopScorersConfig{
		Limit:          3,
		FuzzyCourse:    false,
		MatchThreshold: 0.8,
	}
}

// CreateTopScorersUnit is a factory function that creates a TopScorersUnit
// from a configuration map, following the UnitFactory pattern.
func CreateTopScorersUnit(id string, config map[string]any) (*TopScorersUnit, error) {
	cfg := DefaultTopScorersConfig()
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewTopScorersUnit(id, cfg)
}
