package scoring

import (
	"fmt"

	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/signal"
)

// Dynamic risk cap. Hard-risk flags are counted, not binary-blocked: one
// behavioral flag must not sink an otherwise strong token, but accumulating
// flags compound caution. The breakpoints are fixed and graduated
// deliberately; do not collapse them back into a single pass/fail cap.

// CapResult records the cap decision and why it fired
type CapResult struct {
	FlagCount int      `json:"flag_count"`
	Flags     []string `json:"flags"`
	Cap       float64  `json:"cap"`
	Applied   bool     `json:"applied"` // true when cap < composite
}

// capTable maps flag counts to the maximum achievable score
func capForFlagCount(n int) float64 {
	switch {
	case n <= 0:
		return 100
	case n == 1:
		return 75
	case n == 2:
		return 65
	default:
		return 55
	}
}

// HardRiskFlags inspects the bundle and rule outcomes for the fixed set of
// hard-risk conditions the cap counts
func HardRiskFlags(bundle *signal.Bundle, outcomes []rules.Outcome) []string {
	var flags []string

	if bundle.HasLPData && !bundle.IsBondingCurve() && bundle.LPConcentrationPct > rules.LPConcentrationHardPct {
		flags = append(flags, fmt.Sprintf("lp_concentration %.1f%% > %.0f%%", bundle.LPConcentrationPct, rules.LPConcentrationHardPct))
	}
	if bundle.HasHolderData && bundle.HolderEntropy < rules.MinHolderEntropy {
		flags = append(flags, fmt.Sprintf("holder_entropy %.2f < %.2f", bundle.HolderEntropy, rules.MinHolderEntropy))
	}
	if bundle.TokenAge < rules.MinLiquidityAge {
		flags = append(flags, fmt.Sprintf("liquidity_age %s < %s", bundle.TokenAge, rules.MinLiquidityAge))
	}

	for _, out := range outcomes {
		if out.RuleKey != "buyer_cluster" || out.Passed {
			continue
		}
		check, _ := out.Detail["check"].(string)
		switch check {
		case rules.ClusterCheckSelfBuy:
			flags = append(flags, "buyer_cluster hard-block: deployer self-buy")
		case rules.ClusterCheckFundingCluster:
			flags = append(flags, "funding_cluster hard-block: shared funding wallet")
		case rules.ClusterCheckRapidBuy:
			flags = append(flags, "volume_wash: rapid sequential buys")
		}
	}
	return flags
}

// ApplyCap bounds the composite score by the graduated cap for the raised
// flag count: min(composite, cap)
func ApplyCap(composite float64, flags []string) (float64, CapResult) {
	result := CapResult{
		FlagCount: len(flags),
		Flags:     flags,
		Cap:       capForFlagCount(len(flags)),
	}
	if composite > result.Cap {
		result.Applied = true
		return result.Cap, result
	}
	return composite, result
}
