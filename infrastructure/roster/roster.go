// Package roster imports and exports classroom rosters.
//
// Two formats are supported, chosen by file extension:
//
//   - YAML (.yaml, .yml): a "students" list of name, registration_number
//     and a course-to-score map.
//   - XLSX (.xlsx): the first sheet holds a header row
//     "Registration | Name | <course>..." followed by one row per student.
//     A blank score cell means the student has no score for that course.
//
// Malformed input is reported as a *ports.RosterError carrying the source
// and row. Rows are never skipped silently.
package roster

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// Format identifies a roster file format.
type Format string

// Supported roster formats.
const (
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Column headers of the first two XLSX columns.
const (
	HeaderRegistration = "Registration"
	HeaderName         = "Name"
)

var _ ports.RosterLoader = (*Loader)(nil)

// Loader reads rosters from disk or from readers.
// It is safe for concurrent use.
type Loader struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// NewLoader creates a roster loader. A nil logger discards logs.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// FormatFromPath infers the roster format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the roster at path, dispatching on its extension.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Classroom, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, ports.NewRosterError(path, 0, err)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, ports.NewRosterError(path, 0, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.Warn("closing roster file", zap.String("path", path), zap.Error(err))
		}
	}()

	return l.LoadFrom(ctx, file, format, path)
}

// LoadFrom reads a roster in the given format from r. source names the
// roster in errors and logs.
func (l *Loader) LoadFrom(ctx context.Context, r io.Reader, format Format, source string) (*domain.Classroom, error) {
	var (
		classroom *domain.Classroom
		err       error
	)
	switch format {
	case FormatYAML:
		classroom, err = l.readYAML(ctx, r, source)
	case FormatXLSX:
		classroom, err = l.readXLSX(ctx, r, source)
	default:
		return nil, ports.NewRosterError(source, 0, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format))
	}
	if err != nil {
		l.logger.Error("roster import failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	if classroom.CountStudents() == 0 {
		return nil, ports.NewRosterError(source, 0, ports.ErrEmptyRoster)
	}

	l.logger.Info("roster imported",
		zap.String("source", source),
		zap.String("format", string(format)),
		zap.Int("students", classroom.CountStudents()),
		zap.Int("courses", len(classroom.Courses())))
	return classroom, nil
}

// exportCourses returns the sorted courses of classroom, or an error when one
// of them could not be read back unchanged by Load.
func exportCourses(classroom *domain.Classroom) ([]string, error) {
	courses := classroom.Courses()
	for _, course := range courses {
		if err := domain.ValidateCourseName(course); err != nil {
			return nil, fmt.Errorf("cannot export course: %w", err)
		}
	}
	return courses, nil
}

// Write exports classroom to w in the given format.
// Course names that fail domain.ValidateCourseName are rejected.
func Write(w io.Writer, classroom *domain.Classroom, format Format) error {
	switch format {
	case FormatYAML:
		return WriteYAML(w, classroom)
	case FormatXLSX:
		return WriteXLSX(w, classroom)
	default:
		return fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
	}
}

// addStudent builds a student from one roster row and adds it to classroom.
// Domain failures are wrapped in a RosterError for row.
func addStudent(
	classroom *domain.Classroom,
	source string,
	row int,
	name, registrationNumber string,
	scores map[string]int,
) error {
	student, err := domain.NewStudent(name, registrationNumber)
	if err != nil {
		return ports.NewRosterError(source, row, err)
	}

	for course, score := range scores {
		if err := domain.ValidateCourseName(course); err != nil {
			return ports.NewRosterError(source, row, err)
		}
		if err := student.SetScore(course, score); err != nil {
			return ports.NewRosterError(source, row, err)
		}
	}

	if err := classroom.AddStudent(student); err != nil {
		return ports.NewRosterError(source, row, err)
	}
	return nil
}
