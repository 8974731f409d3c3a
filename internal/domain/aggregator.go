package domain

// Aggregator defines the interface for reducing a set of course scores to a
// single statistic. Implementations provide strategies such as arithmetic
// mean, maximum or median.
type Aggregator interface {
	// Aggregate combines scores into one value.
	//
	// The method should handle edge cases such as:
	//   - Empty score lists (return ErrNoScores)
	//   - A single score (return that score)
	//
	// Example:
	//
	//	scores := []int{12, 15, 18}
	//	value, err := aggregator.Aggregate(scores)
	Aggregate(scores []int) (float64, error)
}
