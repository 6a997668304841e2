package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/gate"
	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/scoring"
	"github.com/launchgate/launchgate/internal/signal"
)

// Snapshot is one immutable, validated view of the configuration: the built
// rule registry, the weight set, and the threshold set. Evaluations load the
// current snapshot once and never observe a mix of old and new configuration.
type Snapshot struct {
	Registry   *rules.Registry
	Weights    scoring.WeightSet
	Thresholds config.Thresholds
	LoadedAt   time.Time
}

// Engine evaluates signal bundles against the current configuration snapshot.
// It is stateless per request and safe for unbounded concurrent use; the only
// shared state is the snapshot pointer, swapped atomically on reload.
type Engine struct {
	snapshot atomic.Pointer[Snapshot]
	logger   zerolog.Logger
}

// New builds an engine from a validated configuration
func New(cfg *config.Config, logger zerolog.Logger) (*Engine, error) {
	e := &Engine{logger: logger}
	if err := e.Reload(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload builds a fresh snapshot from cfg and publishes it atomically.
// In-flight evaluations keep the snapshot they started with.
func (e *Engine) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration rejected: %w", err)
	}
	registry, err := rules.NewRegistry(cfg.Rules, e.logger)
	if err != nil {
		return fmt.Errorf("configuration rejected: %w", err)
	}
	snap := &Snapshot{
		Registry:   registry,
		Weights:    cfg.WeightSet(),
		Thresholds: cfg.RuntimeThresholds(),
		LoadedAt:   time.Now(),
	}
	e.snapshot.Store(snap)
	e.logger.Info().
		Time("loaded_at", snap.LoadedAt).
		Int("weights", len(snap.Weights)).
		Msg("configuration snapshot published")
	return nil
}

// CurrentSnapshot returns the snapshot evaluations are using right now
func (e *Engine) CurrentSnapshot() *Snapshot {
	return e.snapshot.Load()
}

// Evaluation is the full observable output of one pipeline run: the decision
// plus the per-rule outcomes and the cap/bonus breakdown, so a calling system
// can show an operator exactly why.
type Evaluation struct {
	ID             string                 `json:"id"`
	Mint           string                 `json:"mint"`
	Symbol         string                 `json:"symbol"`
	Relaxed        bool                   `json:"relaxed"` // age-adaptive relaxation applied
	Outcomes       []rules.Outcome        `json:"outcomes"`
	CategoryScores scoring.CategoryScores `json:"category_scores"`
	Composite      float64                `json:"composite"`
	AfterCap       float64                `json:"after_cap"`
	Cap            scoring.CapResult      `json:"cap"`
	Bonus          scoring.BonusResult    `json:"bonus"`
	Decision       gate.Decision          `json:"decision"`
	EvaluatedAt    time.Time              `json:"evaluated_at"`
	Duration       time.Duration          `json:"duration"`
}

// Evaluate runs one bundle through the full pipeline: rules, category
// aggregation, composite, dynamic cap, trust bonus, threshold gate.
// RugProbability and dataConfidence are opaque upstream estimates, passed
// through to the gate unmodified.
func (e *Engine) Evaluate(bundle *signal.Bundle, rugProbability, dataConfidence float64) (*Evaluation, error) {
	start := time.Now()
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, fmt.Errorf("engine has no configuration snapshot")
	}

	registry := snap.Registry
	relaxed := gate.ShouldRelax(snap.Thresholds, bundle)
	if relaxed {
		registry = registry.WithRelaxation()
	}

	outcomes := registry.Evaluate(bundle)
	categoryScores := scoring.AggregateCategories(outcomes)

	composite, err := scoring.Composite(categoryScores, snap.Weights)
	if err != nil {
		// snapshot weights were validated at publish time; reaching this is a bug
		return nil, fmt.Errorf("composite scoring: %w", err)
	}

	flags := scoring.HardRiskFlags(bundle, outcomes)
	afterCap, capResult := scoring.ApplyCap(composite, flags)
	bonus := scoring.TrustBonus(bundle)
	finalScore := scoring.ApplyBonus(afterCap, bonus)

	decision := gate.Evaluate(snap.Thresholds, gate.Inputs{
		Bundle:         bundle,
		FinalScore:     finalScore,
		RugProbability: rugProbability,
		DataConfidence: dataConfidence,
		Outcomes:       outcomes,
		Cap:            capResult,
	})

	eval := &Evaluation{
		ID:             uuid.NewString(),
		Mint:           bundle.Mint,
		Symbol:         bundle.Symbol,
		Relaxed:        relaxed,
		Outcomes:       outcomes,
		CategoryScores: categoryScores,
		Composite:      composite,
		AfterCap:       afterCap,
		Cap:            capResult,
		Bonus:          bonus,
		Decision:       decision,
		EvaluatedAt:    start,
		Duration:       time.Since(start),
	}

	e.logger.Debug().
		Str("id", eval.ID).
		Str("mint", bundle.Mint).
		Float64("final_score", finalScore).
		Str("action", string(decision.Action)).
		Msg("bundle evaluated")

	return eval, nil
}
