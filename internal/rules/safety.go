package rules

import (
	"fmt"

	"github.com/launchgate/launchgate/internal/signal"
)

// Safety rules cover the signals that most directly predict an unrecoverable
// loss: LP ownership, LP burn, and whether a sell route even exists.

// LPConcentrationHardPct is the hard-risk threshold shared with the dynamic cap
const LPConcentrationHardPct = 80.0

func evalLPBurn(b *signal.Bundle) Outcome {
	const key = "lp_burn"
	if b.IsBondingCurve() {
		return pass(key, CategorySafety, "bonding-curve venue, no LP to burn")
	}
	if !b.HasLPData {
		return caution(key, CategorySafety, 5, "LP burn data unavailable")
	}
	switch {
	case b.LPBurnedPct < 50:
		return fail(key, CategorySafety, 15, fmt.Sprintf("LP burn %.1f%% below 50%%", b.LPBurnedPct))
	case b.LPBurnedPct < 80:
		return fail(key, CategorySafety, 5, fmt.Sprintf("LP burn %.1f%% below 80%%", b.LPBurnedPct))
	}
	return pass(key, CategorySafety, fmt.Sprintf("LP burn %.1f%%", b.LPBurnedPct))
}

func evalLPConcentration(b *signal.Bundle) Outcome {
	const key = "lp_concentration"
	if b.IsBondingCurve() {
		return pass(key, CategorySafety, "bonding-curve venue, curve-held liquidity")
	}
	if !b.HasLPData {
		return caution(key, CategorySafety, 5, "LP concentration data unavailable")
	}
	switch {
	case b.LPConcentrationPct > LPConcentrationHardPct:
		out := hardFail(key, CategorySafety, 30, fmt.Sprintf("LP concentration %.1f%% above %.0f%%", b.LPConcentrationPct, LPConcentrationHardPct))
		out.Detail = map[string]any{"concentration_pct": b.LPConcentrationPct}
		return out
	case b.LPConcentrationPct > 60:
		return fail(key, CategorySafety, 10, fmt.Sprintf("LP concentration %.1f%% above 60%%", b.LPConcentrationPct))
	}
	return pass(key, CategorySafety, fmt.Sprintf("LP concentration %.1f%%", b.LPConcentrationPct))
}

func evalSellRoute(b *signal.Bundle) Outcome {
	const key = "sell_route"
	if !b.SellRouteConfirmed {
		return hardFail(key, CategorySafety, 40, "no confirmed sell route")
	}
	switch {
	case b.SellSlippagePct > 10:
		return fail(key, CategorySafety, 15, fmt.Sprintf("sell slippage %.1f%% above 10%%", b.SellSlippagePct))
	case b.SellSlippagePct > 5:
		return fail(key, CategorySafety, 5, fmt.Sprintf("sell slippage %.1f%% above 5%%", b.SellSlippagePct))
	}
	return pass(key, CategorySafety, fmt.Sprintf("sell route confirmed, slippage %.1f%%", b.SellSlippagePct))
}
