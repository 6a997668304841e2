package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/launchgate/launchgate/internal/rules"
)

// WeightSumTolerance is how far the category weights may drift from 1.0
const WeightSumTolerance = 0.01

// ErrWeightSum marks a weight set whose weights do not sum to 1.0. A weight
// set carrying this error is a configuration error, never a scoring outcome.
var ErrWeightSum = errors.New("category weights must sum to 1.0")

// WeightSet maps each risk category to its share of the composite score
type WeightSet map[rules.Category]float64

// DefaultWeights returns the production weighting: structural safety carries
// the most, behavioral signals the rest
func DefaultWeights() WeightSet {
	return WeightSet{
		rules.CategorySafety:    0.35,
		rules.CategoryLiquidity: 0.25,
		rules.CategoryMarket:    0.20,
		rules.CategoryAdvanced:  0.20,
	}
}

// Validate rejects unknown categories, out-of-range weights, and weight sums
// outside 1.0 ± WeightSumTolerance
func (w WeightSet) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty weight set", ErrWeightSum)
	}
	sum := 0.0
	for cat, weight := range w {
		if !cat.Valid() {
			return fmt.Errorf("unknown category %q in weight set", cat)
		}
		if weight < 0 || weight > 1 {
			return fmt.Errorf("weight %.3f for category %q outside [0,1]", weight, cat)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: got %.3f", ErrWeightSum, sum)
	}
	return nil
}
