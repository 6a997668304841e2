package rules

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/launchgate/launchgate/internal/signal"
)

// relaxedPenaltyFactor scales penalties of relaxed rules. Very young tokens
// structurally cannot show long-horizon trust signals yet, so behavioral
// failures are softened rather than ignored.
const relaxedPenaltyFactor = 0.5

// Definitions returns the full rule set in evaluation order. The cluster
// detector is one rule group among the others; the data-completeness
// meta-rule is appended by the registry itself since it reads the other
// outcomes rather than the bundle.
func Definitions() []Rule {
	return []Rule{
		{Key: "sell_route", Category: CategorySafety, Critical: true, Tuning: TuningNeverDisable, Enabled: true, MaxPenalty: 40, Evaluate: evalSellRoute},
		{Key: "lp_concentration", Category: CategorySafety, Critical: true, Tuning: TuningNeverDisable, Enabled: true, MaxPenalty: 30, Evaluate: evalLPConcentration},
		{Key: "lp_burn", Category: CategorySafety, Critical: false, Tuning: TuningSafeToRelax, Enabled: true, MaxPenalty: 15, Evaluate: evalLPBurn},
		{Key: "liquidity_floor", Category: CategoryLiquidity, Critical: true, Tuning: TuningNeverDisable, Enabled: true, MaxPenalty: 25, Evaluate: evalLiquidityFloor},
		{Key: "liquidity_age", Category: CategoryLiquidity, Critical: false, Tuning: TuningSafeToRelax, Enabled: true, MaxPenalty: 10, Evaluate: evalLiquidityAge},
		{Key: "holder_entropy", Category: CategoryMarket, Critical: false, Tuning: TuningSafeToRelax, Enabled: true, MaxPenalty: 20, Evaluate: evalHolderEntropy},
		{Key: "price_spike", Category: CategoryMarket, Critical: false, Tuning: TuningOptional, Enabled: true, MaxPenalty: 12, Evaluate: evalPriceSpike},
		{Key: "deployer_reputation", Category: CategoryAdvanced, Critical: false, Tuning: TuningSafeToRelax, Enabled: true, MaxPenalty: 20, Evaluate: evalDeployerReputation},
		{Key: "buyer_cluster", Category: CategoryAdvanced, Critical: true, Tuning: TuningNeverDisable, Enabled: true, MaxPenalty: 30, Evaluate: evalBuyerCluster},
	}
}

// RuleKeys returns the stable keys of all defined rules plus the meta-rule
func RuleKeys() []string {
	defs := Definitions()
	keys := make([]string, 0, len(defs)+1)
	for _, def := range defs {
		keys = append(keys, def.Key)
	}
	return append(keys, DataCompletenessKey)
}

// Registry holds the active rule set for one configuration snapshot. It is
// immutable after construction and safe for concurrent use; evaluation is a
// pure function of bundle plus this snapshot.
type Registry struct {
	rules   []Rule
	relaxed map[string]bool
	logger  zerolog.Logger
}

// NewRegistry builds a registry from the built-in definitions and per-rule
// enable toggles. A toggle for an unknown key is a configuration error.
// Disabling a never-disable rule is allowed as an operator override but is
// warned loudly, since the risk surface it covered is gone.
func NewRegistry(toggles map[string]bool, logger zerolog.Logger) (*Registry, error) {
	defs := Definitions()
	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.Key] = true
	}
	for key := range toggles {
		if !known[key] && key != DataCompletenessKey {
			return nil, fmt.Errorf("unknown rule key in toggles: %q", key)
		}
	}

	active := make([]Rule, 0, len(defs))
	for _, def := range defs {
		if enabled, ok := toggles[def.Key]; ok {
			def.Enabled = enabled
		}
		if !def.Enabled && def.Tuning == TuningNeverDisable {
			logger.Warn().
				Str("rule", def.Key).
				Msg("OPERATOR OVERRIDE: never-disable rule has been disabled — risk coverage lost")
		}
		active = append(active, def)
	}

	return &Registry{
		rules:   active,
		relaxed: map[string]bool{},
		logger:  logger,
	}, nil
}

// WithRelaxation returns a derived registry where every enabled safe-to-relax
// rule is treated as non-critical with softened penalties. Applied before
// evaluation so the relaxation flows through category subscores.
func (r *Registry) WithRelaxation() *Registry {
	relaxed := make(map[string]bool, len(r.rules))
	for _, rule := range r.rules {
		if rule.Enabled && rule.Tuning == TuningSafeToRelax {
			relaxed[rule.Key] = true
		}
	}
	return &Registry{rules: r.rules, relaxed: relaxed, logger: r.logger}
}

// RelaxedKeys reports which rules the current snapshot relaxes
func (r *Registry) RelaxedKeys() []string {
	keys := make([]string, 0, len(r.relaxed))
	for _, rule := range r.rules {
		if r.relaxed[rule.Key] {
			keys = append(keys, rule.Key)
		}
	}
	return keys
}

// Evaluate runs every enabled rule against the bundle in definition order.
// Disabled rules are skipped entirely: no outcome, no penalty. Skipping is
// not the same as passing. A panicking evaluator is converted into a failing
// outcome at the rule's worst-case penalty and evaluation continues. The
// data-completeness meta-rule runs last over the other outcomes.
func (r *Registry) Evaluate(bundle *signal.Bundle) []Outcome {
	outcomes := make([]Outcome, 0, len(r.rules)+1)
	for _, rule := range r.rules {
		if !rule.Enabled {
			continue
		}
		outcomes = append(outcomes, r.runRule(rule, bundle))
	}

	meta := evalDataCompleteness(outcomes)
	meta.Critical = true
	meta.Blocking = false // completeness failures penalize, they do not hard-block
	return append(outcomes, meta)
}

func (r *Registry) runRule(rule Rule, bundle *signal.Bundle) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Str("rule", rule.Key).
				Interface("panic", rec).
				Msg("rule evaluator fault, failing safe at worst-case penalty")
			out = fail(rule.Key, rule.Category, rule.MaxPenalty, fmt.Sprintf("evaluator fault: %v", rec))
			if rule.Tuning == TuningNeverDisable {
				// a faulting never-disable rule cannot vouch for anything
				out.Blocking = true
			}
			out = r.finalize(rule, out)
		}
	}()
	out = rule.Evaluate(bundle)
	return r.finalize(rule, out)
}

// finalize stamps criticality and relaxation onto an outcome. Blocking is set
// by the evaluator on unambiguous hard fails only; finalize clears the mark
// unless the rule is a failed critical never-disable rule, so graded penalty
// tiers debit the score without hard-blocking the gate.
func (r *Registry) finalize(rule Rule, out Outcome) Outcome {
	critical := rule.Critical
	if r.relaxed[rule.Key] {
		critical = false
		out.Penalty *= relaxedPenaltyFactor
		if !out.Passed {
			out.Reason += " (relaxed: young token)"
		}
	}
	out.Critical = critical
	if out.Passed || !critical || rule.Tuning != TuningNeverDisable {
		out.Blocking = false
	}
	return out
}
