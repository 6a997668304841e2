package gate

import (
	"fmt"
	"time"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/scoring"
	"github.com/launchgate/launchgate/internal/signal"
)

// Action is the trade-admission verdict for one evaluation
type Action string

const (
	ActionAutoExecute     Action = "auto_execute"
	ActionManualRecommend Action = "manual_recommend"
	ActionReduceSize      Action = "reduce_size"
	ActionBlock           Action = "block"
	ActionNone            Action = "none" // soft block without the "blocked" label
)

// AgeAdaptiveWindow is the age below which behavioral rules are relaxed when
// age-adaptive mode is on
const AgeAdaptiveWindow = 2 * time.Minute

// Decision is the engine's output record. RugProbability and DataConfidence
// are produced upstream and passed through unmodified; this core never
// computes them.
type Decision struct {
	FinalScore     float64  `json:"final_score"`
	RugProbability float64  `json:"rug_probability"`
	DataConfidence float64  `json:"data_confidence"`
	Action         Action   `json:"action"`
	Reasons        []string `json:"reasons"` // failed critical rules first, then cap, then threshold
}

// Inputs carries everything the gate compares against thresholds
type Inputs struct {
	Bundle         *signal.Bundle
	FinalScore     float64
	RugProbability float64
	DataConfidence float64
	Outcomes       []rules.Outcome
	Cap            scoring.CapResult
}

// ShouldRelax reports whether age-adaptive relaxation applies to the bundle.
// It must be consulted before rule evaluation, not after, so the relaxation
// flows through category subscores.
func ShouldRelax(t config.Thresholds, bundle *signal.Bundle) bool {
	return t.AgeAdaptive && bundle.TokenAge < AgeAdaptiveWindow
}

// Evaluate runs the four-outcome threshold state machine. Precedence is
// fixed: block, then reduce-size, then auto-execute, then manual-recommend,
// then none. No state persists across evaluations.
func Evaluate(t config.Thresholds, in Inputs) Decision {
	d := Decision{
		FinalScore:     in.FinalScore,
		RugProbability: in.RugProbability,
		DataConfidence: in.DataConfidence,
	}
	d.Reasons = orderedReasons(in)

	switch {
	case in.RugProbability >= t.RugHardBlock:
		d.Action = ActionBlock
		d.Reasons = append(d.Reasons, fmt.Sprintf("rug probability %.0f at or above hard-block %.0f", in.RugProbability, t.RugHardBlock))
	case in.DataConfidence < t.ConfidenceBlock:
		d.Action = ActionBlock
		d.Reasons = append(d.Reasons, fmt.Sprintf("data confidence %.0f below block level %.0f", in.DataConfidence, t.ConfidenceBlock))
	case hasBlockingOutcome(in.Outcomes):
		d.Action = ActionBlock
		d.Reasons = append(d.Reasons, "critical never-disable rule hard-failed")
	case in.RugProbability >= t.RugReduceSize:
		d.Action = ActionReduceSize
		d.Reasons = append(d.Reasons, fmt.Sprintf("rug probability %.0f at or above reduce-size %.0f", in.RugProbability, t.RugReduceSize))
	case in.DataConfidence < t.ConfidenceReduce:
		d.Action = ActionReduceSize
		d.Reasons = append(d.Reasons, fmt.Sprintf("data confidence %.0f below reduce level %.0f", in.DataConfidence, t.ConfidenceReduce))
	case in.FinalScore >= t.AutoMinScore:
		if t.MaxTokenAgeStrict > 0 && in.Bundle.TokenAge > t.MaxTokenAgeStrict {
			// strict mode: tokens past the launch window never auto-execute
			d.Action = ActionManualRecommend
			d.Reasons = append(d.Reasons, fmt.Sprintf("token age %s past strict window %s, auto-execute downgraded", in.Bundle.TokenAge, t.MaxTokenAgeStrict))
		} else {
			d.Action = ActionAutoExecute
			d.Reasons = append(d.Reasons, fmt.Sprintf("score %.1f at or above auto threshold %.1f", in.FinalScore, t.AutoMinScore))
		}
	case in.FinalScore >= t.ManualMinScore:
		d.Action = ActionManualRecommend
		d.Reasons = append(d.Reasons, fmt.Sprintf("score %.1f at or above manual threshold %.1f", in.FinalScore, t.ManualMinScore))
	default:
		d.Action = ActionNone
		d.Reasons = append(d.Reasons, fmt.Sprintf("score %.1f below manual threshold %.1f", in.FinalScore, t.ManualMinScore))
	}
	return d
}

func hasBlockingOutcome(outcomes []rules.Outcome) bool {
	for _, out := range outcomes {
		if out.Blocking {
			return true
		}
	}
	return false
}

// orderedReasons builds the contributing-reason prefix: failed critical rules
// first, then cap reasons. The threshold reason is appended by Evaluate.
func orderedReasons(in Inputs) []string {
	var reasons []string
	for _, out := range in.Outcomes {
		if !out.Passed && out.Critical {
			reasons = append(reasons, fmt.Sprintf("%s: %s", out.RuleKey, out.Reason))
		}
	}
	if in.Cap.Applied {
		for _, flag := range in.Cap.Flags {
			reasons = append(reasons, fmt.Sprintf("cap %.0f applied: %s", in.Cap.Cap, flag))
		}
	}
	return reasons
}
