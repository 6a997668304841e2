package scoring

import (
	"github.com/launchgate/launchgate/internal/signal"
)

// Early trust bonus. Seven independently tiered contributions rewarding
// strong positive signals, summed and clamped to [0,20], added after the
// dynamic cap: the cap bounds what risk allows, the bonus rewards what trust
// earned, and the two must not interact.

// MaxTrustBonus is the ceiling on the summed bonus
const MaxTrustBonus = 20.0

// BonusResult itemizes each contribution for observability
type BonusResult struct {
	LiquidityDepth   float64 `json:"liquidity_depth"`
	BuyerDispersion  float64 `json:"buyer_dispersion"`
	FundingDiversity float64 `json:"funding_diversity"`
	LPBurn           float64 `json:"lp_burn"`
	SellRoute        float64 `json:"sell_route"`
	DeployerRep      float64 `json:"deployer_reputation"`
	GrowthVelocity   float64 `json:"growth_velocity"`
	Total            float64 `json:"total"` // clamped sum
}

// TrustBonus computes the early trust bonus for a bundle
func TrustBonus(b *signal.Bundle) BonusResult {
	r := BonusResult{
		LiquidityDepth:   tier(b.LiquidityUSD, 100_000, 4, 50_000, 3, 25_000, 2, 10_000, 1),
		BuyerDispersion:  tier(float64(b.UniqueBuyerCount), 20, 3, 10, 2, 5, 1),
		FundingDiversity: tier(b.FundingDiversity(), 0.8, 3, 0.6, 2, 0.4, 1),
		LPBurn:           lpBurnBonus(b),
		SellRoute:        sellRouteBonus(b),
		DeployerRep:      deployerBonus(b),
		GrowthVelocity:   tier(b.BuyersPerMinute(), 3, 2, 1.5, 1),
	}
	sum := r.LiquidityDepth + r.BuyerDispersion + r.FundingDiversity +
		r.LPBurn + r.SellRoute + r.DeployerRep + r.GrowthVelocity
	r.Total = clamp(sum, 0, MaxTrustBonus)
	return r
}

// ApplyBonus adds the bonus to the capped score: min(100, afterCap + bonus)
func ApplyBonus(afterCap float64, bonus BonusResult) float64 {
	return clamp(afterCap+bonus.Total, 0, 100)
}

// tier walks threshold/points pairs from the top and returns the first match
func tier(value float64, pairs ...float64) float64 {
	for i := 0; i+1 < len(pairs); i += 2 {
		if value >= pairs[i] {
			return pairs[i+1]
		}
	}
	return 0
}

func lpBurnBonus(b *signal.Bundle) float64 {
	// bonding-curve venues have no LP to burn; flat substitute credit
	if b.IsBondingCurve() {
		return 2
	}
	if !b.HasLPData {
		return 0
	}
	return tier(b.LPBurnedPct, 95, 3, 80, 2, 50, 1)
}

func sellRouteBonus(b *signal.Bundle) float64 {
	if !b.SellRouteConfirmed {
		return 0
	}
	if b.SellSlippagePct <= 5 {
		return 2
	}
	return 1
}

func deployerBonus(b *signal.Bundle) float64 {
	if !b.HasDeployerData {
		return 0
	}
	return tier(b.DeployerReputation, 80, 3, 60, 2, 40, 1)
}
