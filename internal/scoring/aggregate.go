package scoring

import (
	"fmt"

	"github.com/launchgate/launchgate/internal/rules"
)

// CategoryScores holds the per-category subscores, each in [0,100]
type CategoryScores map[rules.Category]float64

// AggregateCategories combines rule outcomes into one subscore per category:
// 100 minus the category's summed penalties, clamped to [0,100]. Categories
// with no outcomes score 100; a skipped category is not a failed one.
// Subscores are weight-independent; weighting happens at composite time.
func AggregateCategories(outcomes []rules.Outcome) CategoryScores {
	scores := make(CategoryScores, len(rules.Categories))
	for _, cat := range rules.Categories {
		scores[cat] = 100
	}
	for _, out := range outcomes {
		scores[out.Category] -= out.Penalty
	}
	for cat, score := range scores {
		scores[cat] = clamp(score, 0, 100)
	}
	return scores
}

// Composite combines weighted category subscores into one 0-100 score. It
// fails closed: an invalid weight set refuses to score at all, and the caller
// must treat the error as a configuration error, not a scoring outcome.
func Composite(scores CategoryScores, weights WeightSet) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, fmt.Errorf("composite scorer refusing to run: %w", err)
	}
	total := 0.0
	for cat, weight := range weights {
		total += scores[cat] * weight
	}
	return clamp(total, 0, 100), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
