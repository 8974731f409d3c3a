package domain

import (
	"time"
)

// ReportKind names the computation a report unit performed.
type ReportKind string

// Report kinds produced by the built-in report units.
const (
	ReportTopScorers         ReportKind = "top_scorers"
	ReportSuccessfulStudents ReportKind = "successful_students"
	ReportClassAverage       ReportKind = "class_average"
	ReportCourseStats        ReportKind = "course_stats"
	ReportAtRisk             ReportKind = "at_risk"
)

// ReportEntry is one ranked line of a report, usually a student.
type ReportEntry struct {
	// Rank is the 1-based position of this entry within the report.
	Rank int `json:"rank"`

	// RegistrationNumber identifies the student.
	RegistrationNumber string `json:"registration_number"`

	// Name is the student's name.
	Name string `json:"name"`

	// Value is the number the entry was ranked by: a course score or an average.
	Value float64 `json:"value"`

	// Courses lists related course names, e.g. the failed courses of an
	// at-risk student. Omitted when empty.
	Courses []string `json:"courses,omitempty"`
}

// Report is the outcome of a single report unit over a classroom.
type Report struct {
	// ID uniquely identifies this report (a UUID).
	ID string `json:"id"`

	// Unit is the name of the unit that produced the report.
	Unit string `json:"unit"`

	// Kind tells which computation produced the report.
	Kind ReportKind `json:"kind"`

	// Course is the course the report is about, when it is course-specific.
	Course string `json:"course,omitempty"`

	// Value is the report's headline number, such as an average or a median.
	Value float64 `json:"value"`

	// Passed tells whether the report met its configured threshold.
	// Reports without a threshold always pass.
	Passed bool `json:"passed"`

	// Entries holds the ranked lines of the report.
	// It is omitted from JSON when empty to reduce payload size.
	Entries []ReportEntry `json:"entries,omitempty"`

	// Timestamp records when this report was created.
	Timestamp time.Time `json:"timestamp"`
}

// RunResult collects every report produced by one run over a classroom.
type RunResult struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// Plan is the name of the report plan that was executed.
	Plan string `json:"plan"`

	// Students is the classroom size at run time.
	Students int `json:"students"`

	// Reports are in plan order, independent of execution order.
	Reports []*Report `json:"reports"`

	// StartedAt and Duration describe the run's timing.
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Report returns the report produced by the named unit.
func (r *RunResult) Report(unit string) (*Report, bool) {
	for _, report := range r.Reports {
		if report.Unit == unit {
			return report, true
		}
	}
	return nil, false
}

// EntriesFromStudents ranks students in the given order, using value to
// compute each entry's number.
func EntriesFromStudents(students []*Student, value func(*Student) float64) []ReportEntry {
	entries := make([]ReportEntry, 0, len(students))
	for i, s := range students {
		entries = append(entries, ReportEntry{
			Rank:               i + 1,
			RegistrationNumber: s.RegistrationNumber(),
			Name:               s.Name(),
			Value:              value(s),
		})
	}
	return entries
}
