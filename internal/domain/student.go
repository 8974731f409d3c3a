// Package domain contains the pure, dependency-free classroom model:
// students, their course scores, classrooms and report values.
package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Score bounds and pass rules shared by Student and Classroom.
const (
	// MinScore is the lowest score a course can receive.
	MinScore = 0
	// MaxScore is the highest score a course can receive.
	MaxScore = 20
	// PassingScore is the lowest score for which a course counts as passed.
	PassingScore = 12
	// SuccessAverage is the lowest average a successful student may have.
	SuccessAverage = 12.0
	// MaxFailedCourses is the failed-course count at which a student is no
	// longer successful, whatever the average.
	MaxFailedCourses = 3
)

// Student is a learner identified by a registration number who gets scored
// in any number of courses. Only the latest score per course is kept.
//
// A Student exclusively owns its scores; other types read them through the
// accessor methods. Student is not safe for concurrent mutation.
type Student struct {
	name               string
	registrationNumber string
	scores             map[string]int
}

// NewStudent creates a Student with no scores.
// Returns an ArgumentError wrapping ErrMissingArgument if name or
// registrationNumber is blank.
func NewStudent(name, registrationNumber string) (*Student, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewArgumentError("NewStudent", "name", ErrMissingArgument)
	}
	if strings.TrimSpace(registrationNumber) == "" {
		return nil, NewArgumentError("NewStudent", "registration_number", ErrMissingArgument)
	}

	return &Student{
		name:               name,
		registrationNumber: registrationNumber,
		scores:             make(map[string]int),
	}, nil
}

// Name returns the student's name.
func (s *Student) Name() string { return s.name }

// RegistrationNumber returns the identifier that defines student identity.
func (s *Student) RegistrationNumber() string { return s.registrationNumber }

// Equal reports whether both students share a registration number.
func (s *Student) Equal(other *Student) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.registrationNumber == other.registrationNumber
}

// String returns "name (registration number)".
func (s *Student) String() string {
	return fmt.Sprintf("%s (%s)", s.name, s.registrationNumber)
}

// SetScore records score for course, replacing any previous score.
// An empty course yields ErrMissingArgument and a score outside
// [MinScore, MaxScore] yields ErrInvalidValue; the student is unchanged on error.
func (s *Student) SetScore(course string, score int) error {
	if course == "" {
		return NewArgumentError("SetScore", "course", ErrMissingArgument)
	}
	if score < MinScore || score > MaxScore {
		return NewArgumentError("SetScore", "score",
			fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidValue, score, MinScore, MaxScore))
	}

	s.scores[course] = score
	return nil
}

// Score returns the score recorded for course.
// The boolean is false when no score exists, which is distinct from a score of 0.
func (s *Student) Score(course string) (int, bool) {
	score, ok := s.scores[course]
	return score, ok
}

// Scores returns a copy of every recorded course score.
func (s *Student) Scores() map[string]int { return maps.Clone(s.scores) }

// CourseCount returns how many courses have a recorded score.
func (s *Student) CourseCount() int { return len(s.scores) }

// AverageScore returns the arithmetic mean of all recorded scores,
// or 0 when there are none.
func (s *Student) AverageScore() float64 {
	if len(s.scores) == 0 {
		return 0
	}

	total := 0
	for _, score := range s.scores {
		total += score
	}
	return float64(total) / float64(len(s.scores))
}

// BestCourse returns the course with the highest score. Equal scores resolve
// to the lexically smallest course name. The boolean is false when no score exists.
func (s *Student) BestCourse() (string, bool) {
	ranked := s.rankedCourses(func(int) bool { return true })
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0], true
}

// BestScore returns the highest recorded score, or 0 when there is none.
func (s *Student) BestScore() int {
	best := 0
	for _, score := range s.scores {
		best = max(best, score)
	}
	return best
}

// FailedCourses returns the courses scored below PassingScore, ordered by
// decreasing score and then by course name.
func (s *Student) FailedCourses() []string {
	return s.rankedCourses(func(score int) bool { return score < PassingScore })
}

// IsSuccessful reports whether the average reaches SuccessAverage and fewer
// than MaxFailedCourses courses are failed.
func (s *Student) IsSuccessful() bool {
	return s.AverageScore() >= SuccessAverage && len(s.FailedCourses()) < MaxFailedCourses
}

// AttendedCourses returns every course with a recorded score, sorted by name.
func (s *Student) AttendedCourses() []string {
	courses := slices.Collect(maps.Keys(s.scores))
	slices.Sort(courses)
	if courses == nil {
		return []string{}
	}
	return courses
}

// rankedCourses returns the courses whose score satisfies keep, highest score
// first with ties in course-name order. The result is never nil.
func (s *Student) rankedCourses(keep func(score int) bool) []string {
	courses := make([]string, 0, len(s.scores))
	for course, score := range s.scores {
		if keep(score) {
			courses = append(courses, course)
		}
	}

	slices.SortFunc(courses, func(a, b string) int {
		if s.scores[a] != s.scores[b] {
			return s.scores[b] - s.scores[a]
		}
		return strings.Compare(a, b)
	})
	return courses
}
