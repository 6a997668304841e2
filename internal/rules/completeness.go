package rules

import (
	"fmt"

	"github.com/launchgate/launchgate/internal/signal"
)

// Data-completeness meta-rule. Individual rules pass with caution when their
// signal is missing; an asset with no verifiable data at all would otherwise
// accumulate those soft passes silently. This rule runs after the others and
// fails when too large a share of the evaluated rules passed only because the
// data was absent.

const (
	// DataCompletenessKey is the meta-rule's registry key
	DataCompletenessKey = "data_completeness"

	// maxUnknownShare is the tolerated proportion of unknown-availability passes
	maxUnknownShare = 0.4

	dataCompletenessPenalty = 15
)

func evalDataCompleteness(outcomes []Outcome) Outcome {
	const key = DataCompletenessKey
	if len(outcomes) == 0 {
		return pass(key, CategoryAdvanced, "no rules evaluated")
	}

	unknown := 0
	for _, out := range outcomes {
		if out.Passed && out.Availability == signal.Unknown {
			unknown++
		}
	}
	share := float64(unknown) / float64(len(outcomes))
	if share > maxUnknownShare {
		out := fail(key, CategoryAdvanced, dataCompletenessPenalty,
			fmt.Sprintf("%d of %d rules passed on missing data (%.0f%% > %.0f%%)",
				unknown, len(outcomes), share*100, maxUnknownShare*100))
		out.Detail = map[string]any{"unknown_passes": unknown, "evaluated": len(outcomes)}
		return out
	}
	return pass(key, CategoryAdvanced, fmt.Sprintf("%d of %d rules relied on missing data", unknown, len(outcomes)))
}
