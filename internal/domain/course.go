package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCourseNameLength bounds course names, in runes, wherever they cross a
// file or configuration boundary.
const MaxCourseNameLength = 100

// ValidateCourseName reports whether course can be stored in a roster file and
// referenced from a report plan unchanged: it must be non-empty valid UTF-8
// without surrounding whitespace and at most MaxCourseNameLength runes.
//
// SetScore only requires a non-empty course; importers and exporters call
// ValidateCourseName so a course name survives a round trip byte for byte.
func ValidateCourseName(course string) error {
	switch {
	case course == "":
		return fmt.Errorf("%w: course cannot be empty", ErrMissingArgument)
	case strings.TrimSpace(course) != course:
		return fmt.Errorf("%w: course %q has leading or trailing whitespace", ErrInvalidValue, course)
	case !utf8.ValidString(course):
		return fmt.Errorf("%w: course is not valid UTF-8", ErrInvalidValue)
	case utf8.RuneCountInString(course) > MaxCourseNameLength:
		return fmt.Errorf("%w: course exceeds %d characters", ErrInvalidValue, MaxCourseNameLength)
	}
	return nil
}
