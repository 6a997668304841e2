package rules

import (
	"fmt"
	"math"

	"github.com/launchgate/launchgate/internal/signal"
)

// MinHolderEntropy is the hard-risk threshold shared with the dynamic cap:
// below this the supply is effectively in a handful of wallets
const MinHolderEntropy = 0.25

func evalHolderEntropy(b *signal.Bundle) Outcome {
	const key = "holder_entropy"
	if !b.HasHolderData {
		return caution(key, CategoryMarket, 5, "holder distribution unavailable")
	}
	switch {
	case b.HolderEntropy < MinHolderEntropy:
		out := fail(key, CategoryMarket, 20, fmt.Sprintf("holder entropy %.2f below %.2f", b.HolderEntropy, MinHolderEntropy))
		out.Detail = map[string]any{"holder_entropy": b.HolderEntropy, "holder_count": b.HolderCount}
		return out
	case b.HolderEntropy < 0.4:
		return fail(key, CategoryMarket, 8, fmt.Sprintf("holder entropy %.2f below 0.40", b.HolderEntropy))
	}
	return pass(key, CategoryMarket, fmt.Sprintf("holder entropy %.2f across %d holders", b.HolderEntropy, b.HolderCount))
}

func evalPriceSpike(b *signal.Bundle) Outcome {
	const key = "price_spike"
	change := math.Abs(b.PriceChangePct)
	switch {
	case change > 300:
		return fail(key, CategoryMarket, 12, fmt.Sprintf("price moved %.0f%% in window", b.PriceChangePct))
	case change > 150:
		return fail(key, CategoryMarket, 6, fmt.Sprintf("price moved %.0f%% in window", b.PriceChangePct))
	}
	return pass(key, CategoryMarket, fmt.Sprintf("price change %.1f%%", b.PriceChangePct))
}
