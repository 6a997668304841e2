package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchgate/launchgate/internal/signal"
)

func buyerAt(wallet, funder string, offset time.Duration) signal.Buyer {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return signal.Buyer{Wallet: wallet, FundingWallet: funder, Timestamp: base.Add(offset)}
}

func cleanBundle() *signal.Bundle {
	return &signal.Bundle{
		Mint:       "MintAAA",
		Venue:      signal.VenueRaydium,
		Deployer:   "DeployerX",
		FirstBuyer: "BuyerOne",
		Buyers: []signal.Buyer{
			buyerAt("BuyerOne", "FunderA", 0),
			buyerAt("BuyerTwo", "FunderB", 5*time.Second),
			buyerAt("BuyerThree", "FunderC", 12*time.Second),
			buyerAt("BuyerFour", "FunderD", 30*time.Second),
		},
		UniqueBuyerCount: 4,
	}
}

func TestBuyerCluster_SelfBuyShortCircuits(t *testing.T) {
	b := cleanBundle()
	b.FirstBuyer = "deployerx" // case-insensitive match against DeployerX

	// pile on signals that later checks would also fail, to prove they never run
	b.Buyers = []signal.Buyer{
		buyerAt("W1", "SameFunder", 0),
		buyerAt("W2", "SameFunder", 100*time.Millisecond),
		buyerAt("W3", "SameFunder", 200*time.Millisecond),
	}

	out := evalBuyerCluster(b)
	require.False(t, out.Passed)
	assert.Equal(t, 30.0, out.Penalty)
	assert.Equal(t, ClusterCheckSelfBuy, out.Detail["check"])
	assert.Contains(t, out.Reason, "self-buy")
}

func TestBuyerCluster_BondingCurveExempt(t *testing.T) {
	b := cleanBundle()
	b.Venue = signal.VenuePumpFun
	b.FirstBuyer = b.Deployer // would be self-buy anywhere else

	out := evalBuyerCluster(b)
	require.True(t, out.Passed)
	assert.Zero(t, out.Penalty)
	assert.Equal(t, ClusterCheckExempt, out.Detail["check"])
}

func TestBuyerCluster_FundingCluster(t *testing.T) {
	b := cleanBundle()
	b.Buyers = []signal.Buyer{
		buyerAt("W1", "FunderShared", 0),
		buyerAt("W2", "FunderShared", 10*time.Second),
		buyerAt("W3", "FunderOther", 20*time.Second),
	}

	out := evalBuyerCluster(b)
	require.False(t, out.Passed)
	assert.Equal(t, 25.0, out.Penalty)
	assert.Equal(t, ClusterCheckFundingCluster, out.Detail["check"])
	assert.Equal(t, 2, out.Detail["cluster_size"])
}

func TestBuyerCluster_RapidBuys(t *testing.T) {
	b := cleanBundle()
	b.Buyers = []signal.Buyer{
		buyerAt("W1", "F1", 0),
		buyerAt("W2", "F2", 400*time.Millisecond),
		buyerAt("W3", "F3", 700*time.Millisecond),
		buyerAt("W4", "F4", 10*time.Second),
	}

	out := evalBuyerCluster(b)
	require.False(t, out.Passed)
	assert.Equal(t, 20.0, out.Penalty)
	assert.Equal(t, ClusterCheckRapidBuy, out.Detail["check"])
	assert.Equal(t, 2, out.Detail["fast_gaps"])
}

func TestBuyerCluster_RapidBuysOnlyFirstThreeGaps(t *testing.T) {
	// fast gaps beyond the inspection window must not trigger the check
	b := cleanBundle()
	b.Buyers = []signal.Buyer{
		buyerAt("W1", "F1", 0),
		buyerAt("W2", "F2", 5*time.Second),
		buyerAt("W3", "F3", 10*time.Second),
		buyerAt("W4", "F4", 15*time.Second),
		buyerAt("W5", "F5", 15*time.Second+100*time.Millisecond),
		buyerAt("W6", "F6", 15*time.Second+200*time.Millisecond),
	}

	out := evalBuyerCluster(b)
	assert.True(t, out.Passed)
}

func TestBuyerCluster_MissingVsInsufficient(t *testing.T) {
	// zero buyer records: "we don't know", pass with caution penalty 10
	noData := cleanBundle()
	noData.Buyers = nil
	out := evalBuyerCluster(noData)
	require.True(t, out.Passed)
	assert.Equal(t, 10.0, out.Penalty)
	assert.Equal(t, signal.Unknown, out.Availability)

	// exactly one named external buyer: "we know it's thin", fail penalty 15
	thin := cleanBundle()
	thin.Buyers = []signal.Buyer{buyerAt("OnlyBuyer", "F1", 0)}
	out = evalBuyerCluster(thin)
	require.False(t, out.Passed)
	assert.Equal(t, 15.0, out.Penalty)
	assert.Equal(t, signal.KnownBad, out.Availability)
	assert.Equal(t, 1, out.Detail["external_buyers"])
}

func TestBuyerCluster_DeployerExcludedFromExternalCount(t *testing.T) {
	b := cleanBundle()
	b.Buyers = []signal.Buyer{
		buyerAt("DeployerX", "F1", 0), // deployer buying later is not external
		buyerAt("W2", "F2", 5*time.Second),
	}
	b.FirstBuyer = "W2"

	out := evalBuyerCluster(b)
	require.False(t, out.Passed)
	assert.Equal(t, 15.0, out.Penalty)
	assert.Equal(t, 1, out.Detail["external_buyers"])
}

func TestBuyerCluster_CleanPass(t *testing.T) {
	out := evalBuyerCluster(cleanBundle())
	require.True(t, out.Passed)
	assert.Zero(t, out.Penalty)
	assert.Equal(t, ClusterCheckClean, out.Detail["check"])
	assert.Equal(t, 4, out.Detail["external_buyers"])
}

func TestBuyerCluster_SelfBuyPropertyHolds(t *testing.T) {
	// deployer-first-buyer must dominate every other signal combination
	for i, mutate := range []func(*signal.Bundle){
		func(b *signal.Bundle) { b.Buyers = nil },
		func(b *signal.Bundle) { b.LiquidityUSD = 1e9; b.HasLiquidityData = true },
		func(b *signal.Bundle) { b.DeployerReputation = 100; b.HasDeployerData = true },
	} {
		t.Run(fmt.Sprintf("variant_%d", i), func(t *testing.T) {
			b := cleanBundle()
			b.FirstBuyer = b.Deployer
			mutate(b)
			out := evalBuyerCluster(b)
			assert.False(t, out.Passed)
			assert.Equal(t, 30.0, out.Penalty)
		})
	}
}
