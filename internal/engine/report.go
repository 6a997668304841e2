package engine

import (
	"fmt"
	"strings"

	"github.com/launchgate/launchgate/internal/rules"
)

// Summary returns a one-line verdict for logs and lists
func (ev *Evaluation) Summary() string {
	return fmt.Sprintf("%s %s — score %.1f, action %s (%d rules, %d flags)",
		ev.Symbol, ev.Mint, ev.Decision.FinalScore, ev.Decision.Action,
		len(ev.Outcomes), ev.Cap.FlagCount)
}

// Report renders the full evaluation for operator display: per-rule outcomes,
// category subscores, cap and bonus breakdown, and the ordered decision reasons.
func (ev *Evaluation) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation %s: %s (%s)\n", ev.ID, ev.Symbol, ev.Mint)
	fmt.Fprintf(&b, "Action: %s | Final: %.1f | Composite: %.1f | After cap: %.1f | Bonus: +%.1f\n",
		ev.Decision.Action, ev.Decision.FinalScore, ev.Composite, ev.AfterCap, ev.Bonus.Total)
	if ev.Relaxed {
		b.WriteString("Age-adaptive relaxation applied (young token)\n")
	}

	b.WriteString("\nCategory subscores:\n")
	for _, cat := range rules.Categories {
		fmt.Fprintf(&b, "  %-10s %.1f\n", cat, ev.CategoryScores[cat])
	}

	b.WriteString("\nRules:\n")
	for _, out := range ev.Outcomes {
		status := "PASS"
		if !out.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %-20s penalty %5.1f  %s\n", status, out.RuleKey, out.Penalty, out.Reason)
	}

	if ev.Cap.FlagCount > 0 {
		fmt.Fprintf(&b, "\nHard-risk flags (%d, cap %.0f):\n", ev.Cap.FlagCount, ev.Cap.Cap)
		for _, flag := range ev.Cap.Flags {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
	}

	fmt.Fprintf(&b, "\nTrust bonus %.1f/%.0f: liquidity %.0f, dispersion %.0f, funding %.0f, lp-burn %.0f, sell-route %.0f, deployer %.0f, velocity %.0f\n",
		ev.Bonus.Total, 20.0, ev.Bonus.LiquidityDepth, ev.Bonus.BuyerDispersion, ev.Bonus.FundingDiversity,
		ev.Bonus.LPBurn, ev.Bonus.SellRoute, ev.Bonus.DeployerRep, ev.Bonus.GrowthVelocity)

	b.WriteString("\nReasons:\n")
	for i, reason := range ev.Decision.Reasons {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, reason)
	}
	return b.String()
}
