package domain

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Classroom gathers distinct students, keyed by registration number.
// Students are only read through their accessors; a Classroom never
// mutates the students it holds. Students cannot be removed once added.
//
// Classroom is not safe for concurrent mutation. Concurrent reads are safe
// once no more students are being added and no scores are being set.
type Classroom struct {
	students map[string]*Student
}

// NewClassroom creates an empty classroom.
func NewClassroom() *Classroom {
	return &Classroom{students: make(map[string]*Student)}
}

// AddStudent adds student to the classroom.
// A nil student yields ErrMissingArgument. A student whose registration
// number is already present yields a *DuplicateStudentError and leaves the
// classroom unchanged.
func (c *Classroom) AddStudent(student *Student) error {
	if student == nil {
		return NewArgumentError("AddStudent", "student", ErrMissingArgument)
	}
	if _, exists := c.students[student.RegistrationNumber()]; exists {
		return &DuplicateStudentError{RegistrationNumber: student.RegistrationNumber()}
	}

	c.students[student.RegistrationNumber()] = student
	return nil
}

// CountStudents returns the number of distinct students.
func (c *Classroom) CountStudents() int { return len(c.students) }

// Student looks up a member by registration number.
func (c *Classroom) Student(registrationNumber string) (*Student, bool) {
	s, ok := c.students[registrationNumber]
	return s, ok
}

// Students returns every member ordered by registration number.
func (c *Classroom) Students() []*Student {
	students := slices.Collect(maps.Values(c.students))
	slices.SortFunc(students, byRegistrationNumber)
	return students
}

// Courses returns the union of the courses attended by any member, sorted by name.
func (c *Classroom) Courses() []string {
	seen := make(map[string]struct{})
	for _, s := range c.students {
		for _, course := range s.AttendedCourses() {
			seen[course] = struct{}{}
		}
	}

	courses := slices.Collect(maps.Keys(seen))
	slices.Sort(courses)
	if courses == nil {
		return []string{}
	}
	return courses
}

// CourseScores returns registration number to score for every member scored in course.
func (c *Classroom) CourseScores(course string) map[string]int {
	scores := make(map[string]int)
	for regNo, s := range c.students {
		if score, ok := s.Score(course); ok {
			scores[regNo] = score
		}
	}
	return scores
}

// AverageScore returns the mean of every score of every student, all courses
// flattened together. It returns 0 when no score exists anywhere.
func (c *Classroom) AverageScore() float64 {
	total, count := 0, 0
	for _, s := range c.students {
		for _, score := range s.Scores() {
			total += score
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// TopScorers returns at most n students scored in course, ordered by
// decreasing score. Students with equal scores are ordered by registration
// number. Students without a score for course are left out.
//
// An empty course yields ErrMissingArgument and n <= 0 yields ErrInvalidValue.
func (c *Classroom) TopScorers(course string, n int) ([]*Student, error) {
	if course == "" {
		return nil, NewArgumentError("TopScorers", "course", ErrMissingArgument)
	}
	if n <= 0 {
		return nil, NewArgumentError("TopScorers", "n",
			fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidValue, n))
	}

	type scored struct {
		student *Student
		score   int
	}

	candidates := make([]scored, 0, len(c.students))
	for _, s := range c.students {
		if score, ok := s.Score(course); ok {
			candidates = append(candidates, scored{student: s, score: score})
		}
	}

	slices.SortFunc(candidates, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return byRegistrationNumber(a.student, b.student)
	})

	top := make([]*Student, 0, min(n, len(candidates)))
	for _, candidate := range candidates[:min(n, len(candidates))] {
		top = append(top, candidate.student)
	}
	return top, nil
}

// SuccessfulStudents returns every successful student ordered by decreasing
// average score, then by registration number.
func (c *Classroom) SuccessfulStudents() []*Student {
	successful := make([]*Student, 0)
	for _, s := range c.students {
		if s.IsSuccessful() {
			successful = append(successful, s)
		}
	}

	slices.SortFunc(successful, func(a, b *Student) int {
		if diff := cmp.Compare(b.AverageScore(), a.AverageScore()); diff != 0 {
			return diff
		}
		return byRegistrationNumber(a, b)
	})
	return successful
}

func byRegistrationNumber(a, b *Student) int {
	return strings.Compare(a.RegistrationNumber(), b.RegistrationNumber())
}
