package roster

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// yamlRoster is the document layout of a YAML roster.
type yamlRoster struct {
	Students []yamlStudent `yaml:"students"`
}

type yamlStudent struct {
	Name               string         `yaml:"name" validate:"required,max=200"`
	RegistrationNumber string         `yaml:"registration_number" validate:"required,max=64"`
	Scores             map[string]int `yaml:"scores,omitempty"`
}

// readYAML decodes a YAML roster. Row numbers in errors are the 1-based
// position of the student in the list.
func (l *Loader) readYAML(ctx context.Context, r io.Reader, source string) (*domain.Classroom, error) {
	var doc yamlRoster
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ports.NewRosterError(source, 0, ports.ErrEmptyRoster)
		}
		return nil, ports.NewRosterError(source, 0, fmt.Errorf("%w: %v", ports.ErrMalformedRow, err))
	}

	classroom := domain.NewClassroom()
	for i, rec := range doc.Students {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := i + 1
		if err := l.validate.Struct(rec); err != nil {
			return nil, ports.NewRosterError(source, row, fmt.Errorf("%w: %v", ports.ErrMalformedRow, err))
		}
		if err := addStudent(classroom, source, row, rec.Name, rec.RegistrationNumber, rec.Scores); err != nil {
			return nil, err
		}
	}
	return classroom, nil
}

// WriteYAML exports classroom as a YAML roster, students in registration
// number order.
func WriteYAML(w io.Writer, classroom *domain.Classroom) error {
	if _, err := exportCourses(classroom); err != nil {
		return err
	}
	doc := yamlRoster{Students: make([]yamlStudent, 0, classroom.CountStudents())}
	for _, s := range classroom.Students() {
		rec := yamlStudent{Name: s.Name(), RegistrationNumber: s.RegistrationNumber()}
		if s.CourseCount() > 0 {
			rec.Scores = s.Scores()
		}
		doc.Students = append(doc.Students, rec)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return encoder.Close()
}
