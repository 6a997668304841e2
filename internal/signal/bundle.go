package signal

import (
	"strings"
	"time"
)

// Venue identifies where the token was first observed trading
type Venue string

const (
	VenueRaydium  Venue = "raydium"
	VenueOrca     Venue = "orca"
	VenueMeteora  Venue = "meteora"
	VenuePumpFun  Venue = "pumpfun" // bonding-curve fair launch
	VenueMoonshot Venue = "moonshot"
	VenueUnknown  Venue = "unknown"
)

// BondingCurveVenues lists venues whose launch mechanics structurally prevent
// deployer self-buy ordering abuse (no deployer-controlled LP, enforced pricing curve)
var BondingCurveVenues = map[Venue]bool{
	VenuePumpFun:  true,
	VenueMoonshot: true,
}

// Availability is the tri-state data quality marker attached to every rule outcome.
// "We don't know" must stay visibly distinct from both "we know it's good" and
// "we know it's bad" all the way through scoring.
type Availability string

const (
	KnownGood Availability = "known_good"
	KnownBad  Availability = "known_bad"
	Unknown   Availability = "unknown"
)

// Buyer is one observed buy of the token, keyed by buyer wallet
type Buyer struct {
	Wallet        string    `json:"wallet"`
	FundingWallet string    `json:"funding_wallet"` // wallet that funded the buyer, if traced
	Timestamp     time.Time `json:"timestamp"`
}

// Bundle is the complete set of observed facts about one candidate token at
// evaluation time. It is assembled by external data-fetchers, constructed fresh
// per asset per request, and never mutated: rules read it, nothing writes it.
type Bundle struct {
	Mint   string `json:"mint"`
	Symbol string `json:"symbol"`
	Venue  Venue  `json:"venue"`
	Source string `json:"source"` // feed tag for attribution

	// Liquidity signals
	LiquidityUSD       float64 `json:"liquidity_usd"`
	HasLiquidityData   bool    `json:"has_liquidity_data"`
	LPBurnedPct        float64 `json:"lp_burned_pct"`        // burned or locked, 0-100
	LPConcentrationPct float64 `json:"lp_concentration_pct"` // largest LP holder share, 0-100
	HasLPData          bool    `json:"has_lp_data"`

	// Holder distribution
	HolderEntropy float64 `json:"holder_entropy"` // 0-1, higher = more dispersed
	HolderCount   int     `json:"holder_count"`
	HasHolderData bool    `json:"has_holder_data"`

	// Buyer behavior
	Buyers           []Buyer `json:"buyers"`
	UniqueBuyerCount int     `json:"unique_buyer_count"`

	// Deployer signals
	Deployer           string  `json:"deployer"`
	FirstBuyer         string  `json:"first_buyer"`
	DeployerReputation float64 `json:"deployer_reputation"` // 0-100, from deployer-history lookup
	HasDeployerData    bool    `json:"has_deployer_data"`

	// Sell-route viability
	SellRouteConfirmed bool    `json:"sell_route_confirmed"`
	SellSlippagePct    float64 `json:"sell_slippage_pct"`

	// Market context
	TokenAge       time.Duration `json:"token_age"`
	PriceChangePct float64       `json:"price_change_pct"` // recent window

	ObservedAt time.Time `json:"observed_at"`
}

// IsBondingCurve reports whether the bundle's venue is a bonding-curve launch venue
func (b *Bundle) IsBondingCurve() bool {
	return BondingCurveVenues[b.Venue]
}

// DeployerIsFirstBuyer performs the case-insensitive self-buy address match
func (b *Bundle) DeployerIsFirstBuyer() bool {
	if b.Deployer == "" || b.FirstBuyer == "" {
		return false
	}
	return strings.EqualFold(b.Deployer, b.FirstBuyer)
}

// FundingDiversity returns unique funding wallets divided by buyer count.
// Returns 0 when no buyers carry funding data.
func (b *Bundle) FundingDiversity() float64 {
	if len(b.Buyers) == 0 {
		return 0
	}
	funders := make(map[string]bool, len(b.Buyers))
	traced := 0
	for _, buyer := range b.Buyers {
		if buyer.FundingWallet == "" {
			continue
		}
		traced++
		funders[strings.ToLower(buyer.FundingWallet)] = true
	}
	if traced == 0 {
		return 0
	}
	return float64(len(funders)) / float64(traced)
}

// BuyersPerMinute is the growth-velocity input: unique buyers per minute of token age
func (b *Bundle) BuyersPerMinute() float64 {
	if b.TokenAge <= 0 {
		return 0
	}
	minutes := b.TokenAge.Minutes()
	if minutes < 1 {
		minutes = 1 // sub-minute ages would inflate velocity
	}
	return float64(b.UniqueBuyerCount) / minutes
}
