package rules

import (
	"fmt"
	"time"

	"github.com/launchgate/launchgate/internal/signal"
)

// MinLiquidityAge is the hard-risk threshold shared with the dynamic cap:
// pools younger than this cannot have proven anything yet
const MinLiquidityAge = 30 * time.Second

func evalLiquidityFloor(b *signal.Bundle) Outcome {
	const key = "liquidity_floor"
	if !b.HasLiquidityData {
		return caution(key, CategoryLiquidity, 5, "liquidity data unavailable")
	}
	switch {
	case b.LiquidityUSD < 5_000:
		return fail(key, CategoryLiquidity, 25, fmt.Sprintf("liquidity $%.0f below $5k floor", b.LiquidityUSD))
	case b.LiquidityUSD < 25_000:
		return fail(key, CategoryLiquidity, 10, fmt.Sprintf("liquidity $%.0f below $25k", b.LiquidityUSD))
	}
	return pass(key, CategoryLiquidity, fmt.Sprintf("liquidity $%.0f", b.LiquidityUSD))
}

func evalLiquidityAge(b *signal.Bundle) Outcome {
	const key = "liquidity_age"
	if b.TokenAge < MinLiquidityAge {
		out := fail(key, CategoryLiquidity, 10, fmt.Sprintf("token age %s below %s", b.TokenAge, MinLiquidityAge))
		out.Detail = map[string]any{"token_age_seconds": b.TokenAge.Seconds()}
		return out
	}
	return pass(key, CategoryLiquidity, fmt.Sprintf("token age %s", b.TokenAge))
}
