package units

import (
	"fmt"
	"slices"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// Statistic names an aggregation strategy for course scores.
type Statistic string

// Supported statistics.
const (
	StatisticMean   Statistic = "mean"
	StatisticMax    Statistic = "max"
	StatisticMin    Statistic = "min"
	StatisticMedian Statistic = "median"
)

var (
	_ domain.Aggregator = MeanAggregator{}
	_ domain.Aggregator = MaxAggregator{}
	_ domain.Aggregator = MinAggregator{}
	_ domain.Aggregator = MedianAggregator{}
)

// NewAggregator returns the aggregator implementing statistic.
func NewAggregator(statistic Statistic) (domain.Aggregator, error) {
	switch statistic {
	case StatisticMean:
		return MeanAggregator{}, nil
	case StatisticMax:
		return MaxAggregator{}, nil
	case StatisticMin:
		return MinAggregator{}, nil
	case StatisticMedian:
		return MedianAggregator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatistic, statistic)
	}
}

// MeanAggregator computes the arithmetic mean (Σscores / count).
type MeanAggregator struct{}

// Aggregate implements domain.Aggregator.
func (MeanAggregator) Aggregate(scores []int) (float64, error) {
	if len(scores) == 0 {
		return 0, domain.ErrNoScores
	}

	total := 0
	for _, score := range scores {
		total += score
	}
	return float64(total) / float64(len(scores)), nil
}

// MaxAggregator selects the highest score.
type MaxAggregator struct{}

// Aggregate implements domain.Aggregator.
func (MaxAggregator) Aggregate(scores []int) (float64, error) {
	if len(scores) == 0 {
		return 0, domain.ErrNoScores
	}
	return float64(slices.Max(scores)), nil
}

// MinAggregator selects the lowest score.
type MinAggregator struct{}

// Aggregate implements domain.Aggregator.
func (MinAggregator) Aggregate(scores []int) (float64, error) {
	if len(scores) == 0 {
		return 0, domain.ErrNoScores
	}
	return float64(slices.Min(scores)), nil
}

// MedianAggregator computes the statistical median:
//   - Odd count: the middle value after sorting
//   - Even count: the arithmetic mean of the two middle values
//
// The input slice is not modified.
type MedianAggregator struct{}

// Aggregate implements domain.Aggregator.
func (MedianAggregator) Aggregate(scores []int) (float64, error) {
	if len(scores) == 0 {
		return 0, domain.ErrNoScores
	}

	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2]), nil
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2, nil
}
