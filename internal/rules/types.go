package rules

import (
	"github.com/launchgate/launchgate/internal/signal"
)

// Category is the closed set of risk categories a rule can belong to.
// Keeping this a typed enum (not raw strings) is what lets the weight
// validator reject unknown categories instead of silently dropping them.
type Category string

const (
	CategorySafety    Category = "safety"
	CategoryLiquidity Category = "liquidity"
	CategoryMarket    Category = "market"
	CategoryAdvanced  Category = "advanced"
)

// Categories lists all valid categories in stable order
var Categories = []Category{CategorySafety, CategoryLiquidity, CategoryMarket, CategoryAdvanced}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategorySafety, CategoryLiquidity, CategoryMarket, CategoryAdvanced:
		return true
	}
	return false
}

// Tuning classifies how safely an operator can relax or disable a rule
type Tuning string

const (
	TuningNeverDisable Tuning = "never_disable" // disabling is an operator override, warned loudly
	TuningSafeToRelax  Tuning = "safe_to_relax" // candidate for age-adaptive relaxation
	TuningOptional     Tuning = "optional"
)

// EvalFunc inspects a signal bundle and returns one outcome. Evaluators are
// pure: no I/O, no shared state, everything they need is already in the bundle.
type EvalFunc func(b *signal.Bundle) Outcome

// Rule is a named, independently evaluable risk check. Rules are configuration,
// not per-request state: built once per config snapshot and reused across
// concurrent evaluations.
type Rule struct {
	Key        string
	Category   Category
	Critical   bool
	Tuning     Tuning
	Enabled    bool
	MaxPenalty float64 // worst-case penalty, charged when the evaluator faults
	Evaluate   EvalFunc
}

// Outcome is the result of one rule evaluation
type Outcome struct {
	RuleKey      string              `json:"rule_key"`
	Category     Category            `json:"category"`
	Passed       bool                `json:"passed"`
	Penalty      float64             `json:"penalty"`
	Reason       string              `json:"reason"`
	Availability signal.Availability `json:"availability"`
	Critical     bool                `json:"critical"`
	Blocking     bool                `json:"blocking"` // hard fail marked by the evaluator; graded tiers only penalize
	Detail       map[string]any      `json:"detail,omitempty"`
}

// pass builds a clean passing outcome
func pass(key string, cat Category, reason string) Outcome {
	return Outcome{
		RuleKey:      key,
		Category:     cat,
		Passed:       true,
		Reason:       reason,
		Availability: signal.KnownGood,
	}
}

// fail builds a failing outcome with availability known-bad
func fail(key string, cat Category, penalty float64, reason string) Outcome {
	return Outcome{
		RuleKey:      key,
		Category:     cat,
		Passed:       false,
		Penalty:      penalty,
		Reason:       reason,
		Availability: signal.KnownBad,
	}
}

// hardFail builds a failing outcome additionally marked as a blocking
// candidate. Only the unambiguous manipulation or unsellability fails use
// this; graded penalty tiers use fail and debit the score instead. The
// registry clears the mark unless the rule is critical and never-disable.
func hardFail(key string, cat Category, penalty float64, reason string) Outcome {
	out := fail(key, cat, penalty, reason)
	out.Blocking = true
	return out
}

// caution builds the documented pass-with-caution outcome for missing data:
// passed, but with a bounded penalty and availability unknown, so absent data
// is visibly distinct from both good and bad data.
func caution(key string, cat Category, penalty float64, reason string) Outcome {
	return Outcome{
		RuleKey:      key,
		Category:     cat,
		Passed:       true,
		Penalty:      penalty,
		Reason:       reason,
		Availability: signal.Unknown,
	}
}
