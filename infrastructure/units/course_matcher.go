package units

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder for performance.
// This avoids creating a new caser for each string preparation.
var foldCaser = cases.Fold()

// CourseMatcher resolves a requested course name against the courses a
// classroom actually recorded. Rosters imported from different sources
// often disagree on spelling ("Maths" vs "Math") or case, so a report can
// opt into approximate matching instead of silently reporting nothing.
//
// Matching first tries the exact name, then a case-folded comparison, then
// Levenshtein similarity on the folded names. The matcher is stateless and
// safe for concurrent use.
type CourseMatcher struct {
	threshold float64
}

// NewCourseMatcher creates a matcher accepting candidates whose similarity
// is at least threshold, which must be within [0, 1].
func NewCourseMatcher(threshold float64) (*CourseMatcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("match threshold must be between 0 and 1, got %.3f", threshold)
	}
	return &CourseMatcher{threshold: threshold}, nil
}

// Resolve returns the known course that best matches requested along with
// its similarity. Equal similarities resolve to the earliest course in
// known, so callers should pass a sorted list for deterministic results.
// The boolean is false when no course reaches the threshold.
func (m *CourseMatcher) Resolve(requested string, known []string) (string, float64, bool) {
	for _, course := range known {
		if course == requested {
			return course, 1.0, true
		}
	}

	folded := foldCaser.String(requested)
	best, bestSimilarity := "", -1.0
	for _, course := range known {
		similarity := Similarity(folded, foldCaser.String(course))
		if similarity > bestSimilarity {
			best, bestSimilarity = course, similarity
		}
	}

	if best == "" || bestSimilarity < m.threshold {
		return "", 0, false
	}
	return best, bestSimilarity, true
}

// Similarity computes 1 - distance/maxLength between two strings using the
// Levenshtein distance, returning a value between 0.0 and 1.0 where 1.0
// indicates identical strings. Lengths are counted in runes.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2))
	if maxLen == 0 {
		return 1.0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}
