// Package testutils provides utilities for testing, including mock objects and
// test data generators. These components are intended for internal use within
// the project's test suites and are not part of the public API.
package testutils

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// DefaultCourses are the courses used by generated rosters when none are given.
var DefaultCourses = []string{"biology", "chemistry", "history", "literature", "math", "physics"}

// Profile shapes the score distribution of a generated student.
type Profile int

// Student profiles used by the roster generator.
const (
	ProfileStrong Profile = iota
	ProfileAverage
	ProfileStruggling
)

// scoreRange is the inclusive score interval of each profile.
var scoreRange = map[Profile][2]int{
	ProfileStrong:     {13, 20},
	ProfileAverage:    {8, 16},
	ProfileStruggling: {0, 11},
}

// GenerateSampleRoster creates a synthetic classroom of size students.
// The seed parameter controls randomization: use a fixed value for
// reproducible tests. Each student attends most courses; about one course
// in six is left unscored.
func GenerateSampleRoster(size int, courses []string, seed int64) (*domain.Classroom, error) {
	if len(courses) == 0 {
		courses = DefaultCourses
	}
	rng := rand.New(rand.NewSource(seed))

	classroom := domain.NewClassroom()
	for i := range size {
		student, err := domain.NewStudent(
			fmt.Sprintf("Student %03d", i+1),
			fmt.Sprintf("R%05d", i+1),
		)
		if err != nil {
			return nil, err
		}

		profile := Profile(rng.Intn(3))
		bounds := scoreRange[profile]
		for _, course := range courses {
			if rng.Intn(6) == 0 {
				continue
			}
			score := bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
			if err := student.SetScore(course, score); err != nil {
				return nil, err
			}
		}

		if err := classroom.AddStudent(student); err != nil {
			return nil, err
		}
	}
	return classroom, nil
}

// RosterStatistics summarizes a classroom for reporting by generators and
// benchmarks.
type RosterStatistics struct {
	Students         int
	Courses          []string
	ScoresRecorded   int
	ClassAverage     float64
	SuccessfulCount  int
	StudentsNoScores int
}

// ComputeRosterStatistics calculates RosterStatistics for classroom.
func ComputeRosterStatistics(classroom *domain.Classroom) RosterStatistics {
	stats := RosterStatistics{
		Students:     classroom.CountStudents(),
		Courses:      slices.Clone(classroom.Courses()),
		ClassAverage: classroom.AverageScore(),
	}
	for _, s := range classroom.Students() {
		stats.ScoresRecorded += s.CourseCount()
		if s.CourseCount() == 0 {
			stats.StudentsNoScores++
		}
		if s.IsSuccessful() {
			stats.SuccessfulCount++
		}
	}
	return stats
}
