package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/launchgate/launchgate/internal/signal"
)

// Cluster / wash-trading detector. The checks run in strict order and
// short-circuit on the first definitive failure: once one check proves
// manipulation, the later ones add nothing. The ordering, penalties, and the
// split between "data proves insufficiency" and "data was never supplied"
// are load-bearing. Conflating the last two either over-blocks legitimate
// early tokens or under-blocks manipulated ones.

const (
	ClusterCheckExempt         = "venue_exempt"
	ClusterCheckSelfBuy        = "self_buy"
	ClusterCheckFundingCluster = "funding_cluster"
	ClusterCheckRapidBuy       = "rapid_buy"
	ClusterCheckExternalBuyers = "external_buyers"
	ClusterCheckClean          = "clean"
)

const (
	rapidBuyGapMax    = 1000 * time.Millisecond
	rapidBuyGapWindow = 3 // first N inter-arrival gaps inspected
	minExternalBuyers = 2
)

func evalBuyerCluster(b *signal.Bundle) Outcome {
	const key = "buyer_cluster"

	// Check 1: bonding-curve venues structurally prevent deployer self-buy
	// ordering abuse, so the whole group is exempted
	if b.IsBondingCurve() {
		out := pass(key, CategoryAdvanced, "bonding-curve venue exempt from cluster checks")
		out.Detail = map[string]any{"check": ClusterCheckExempt}
		return out
	}

	// Check 2: deployer bought first
	if b.DeployerIsFirstBuyer() {
		out := hardFail(key, CategoryAdvanced, 30, "self-buy: deployer is first buyer")
		out.Detail = map[string]any{"check": ClusterCheckSelfBuy, "deployer": b.Deployer}
		return out
	}

	// Check 3: shared funding wallets behind multiple buyers
	if cluster, size := largestFundingCluster(b.Buyers); size >= 2 {
		out := hardFail(key, CategoryAdvanced, 25, fmt.Sprintf("funding cluster: %d buyers funded by one wallet", size))
		out.Detail = map[string]any{
			"check":          ClusterCheckFundingCluster,
			"funding_wallet": cluster,
			"cluster_size":   size,
		}
		return out
	}

	// Check 4: bot wash-buying signature in the first inter-arrival gaps
	if fast := rapidGapCount(b.Buyers); fast >= 2 {
		out := hardFail(key, CategoryAdvanced, 20, fmt.Sprintf("rapid sequential buys: %d gaps under %s", fast, rapidBuyGapMax))
		out.Detail = map[string]any{"check": ClusterCheckRapidBuy, "fast_gaps": fast}
		return out
	}

	// Check 5: enough independent external buyers. Zero supplied buyer data is
	// "we don't know", not "we know it's bad", so pass with a caution penalty.
	external := externalBuyerCount(b)
	if external < minExternalBuyers {
		if len(b.Buyers) == 0 {
			out := caution(key, CategoryAdvanced, 10, "buyer data unavailable, proceed with caution")
			out.Detail = map[string]any{"check": ClusterCheckExternalBuyers, "external_buyers": 0}
			return out
		}
		out := fail(key, CategoryAdvanced, 15, fmt.Sprintf("only %d external buyers (need %d)", external, minExternalBuyers))
		out.Detail = map[string]any{"check": ClusterCheckExternalBuyers, "external_buyers": external}
		return out
	}

	out := pass(key, CategoryAdvanced, fmt.Sprintf("%d external buyers, no cluster pattern", external))
	out.Detail = map[string]any{"check": ClusterCheckClean, "external_buyers": external}
	return out
}

// largestFundingCluster groups buyers by funding wallet and returns the wallet
// backing the most buyers plus that count
func largestFundingCluster(buyers []signal.Buyer) (string, int) {
	counts := make(map[string]int)
	for _, b := range buyers {
		if b.FundingWallet == "" {
			continue
		}
		counts[strings.ToLower(b.FundingWallet)]++
	}
	var wallet string
	var max int
	for w, n := range counts {
		if n > max {
			wallet, max = w, n
		}
	}
	return wallet, max
}

// rapidGapCount sorts buyers by timestamp and counts how many of the first
// rapidBuyGapWindow inter-arrival gaps are under rapidBuyGapMax
func rapidGapCount(buyers []signal.Buyer) int {
	if len(buyers) < 2 {
		return 0
	}
	sorted := make([]signal.Buyer, len(buyers))
	copy(sorted, buyers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	fast := 0
	gaps := len(sorted) - 1
	if gaps > rapidBuyGapWindow {
		gaps = rapidBuyGapWindow
	}
	for i := 0; i < gaps; i++ {
		if sorted[i+1].Timestamp.Sub(sorted[i].Timestamp) < rapidBuyGapMax {
			fast++
		}
	}
	return fast
}

// externalBuyerCount counts unique buyer wallets excluding the deployer and
// any wallets sharing a funding wallet with another buyer
func externalBuyerCount(b *signal.Bundle) int {
	funderBuyers := make(map[string][]string)
	for _, buyer := range b.Buyers {
		if buyer.FundingWallet == "" {
			continue
		}
		f := strings.ToLower(buyer.FundingWallet)
		funderBuyers[f] = append(funderBuyers[f], strings.ToLower(buyer.Wallet))
	}
	clustered := make(map[string]bool)
	for _, wallets := range funderBuyers {
		if len(wallets) >= 2 {
			for _, w := range wallets {
				clustered[w] = true
			}
		}
	}

	deployer := strings.ToLower(b.Deployer)
	seen := make(map[string]bool)
	for _, buyer := range b.Buyers {
		w := strings.ToLower(buyer.Wallet)
		if w == "" || w == deployer || clustered[w] {
			continue
		}
		seen[w] = true
	}
	return len(seen)
}
