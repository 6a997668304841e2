package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/scoring"
	"github.com/launchgate/launchgate/internal/signal"
)

func testThresholds() config.Thresholds {
	return config.Thresholds{
		AutoMinScore:     80,
		ManualMinScore:   60,
		RugHardBlock:     70,
		RugReduceSize:    50,
		ConfidenceBlock:  30,
		ConfidenceReduce: 50,
		AgeAdaptive:      true,
	}
}

func inputs(score, rug, confidence float64) Inputs {
	return Inputs{
		Bundle:         &signal.Bundle{Mint: "MintCCC", TokenAge: 10 * time.Minute},
		FinalScore:     score,
		RugProbability: rug,
		DataConfidence: confidence,
	}
}

func TestGate_RugHardBlockIgnoresScore(t *testing.T) {
	// rug probability 72 against hard-block 70 blocks irrespective of score
	for _, score := range []float64{0, 55, 85, 100} {
		d := Evaluate(testThresholds(), inputs(score, 72, 95))
		assert.Equal(t, ActionBlock, d.Action, "score %.0f", score)
	}
}

func TestGate_ConfidenceBlock(t *testing.T) {
	d := Evaluate(testThresholds(), inputs(95, 10, 20))
	assert.Equal(t, ActionBlock, d.Action)
}

func TestGate_BlockingRuleOutcome(t *testing.T) {
	in := inputs(95, 10, 95)
	in.Outcomes = []rules.Outcome{{
		RuleKey:  "sell_route",
		Passed:   false,
		Penalty:  40,
		Reason:   "no confirmed sell route",
		Critical: true,
		Blocking: true,
	}}

	d := Evaluate(testThresholds(), in)
	assert.Equal(t, ActionBlock, d.Action)
	require.NotEmpty(t, d.Reasons)
	assert.Contains(t, d.Reasons[0], "sell_route", "failed critical rules come first")
}

func TestGate_ReduceSizePrecedence(t *testing.T) {
	// rug above reduce but below hard-block
	d := Evaluate(testThresholds(), inputs(95, 55, 95))
	assert.Equal(t, ActionReduceSize, d.Action)

	// confidence below reduce but above block
	d = Evaluate(testThresholds(), inputs(95, 10, 40))
	assert.Equal(t, ActionReduceSize, d.Action)
}

func TestGate_ScoreBands(t *testing.T) {
	tests := []struct {
		score float64
		want  Action
	}{
		{85, ActionAutoExecute},
		{80, ActionAutoExecute},
		{79.9, ActionManualRecommend},
		{60, ActionManualRecommend},
		{59.9, ActionNone},
		{0, ActionNone},
	}
	for _, tt := range tests {
		d := Evaluate(testThresholds(), inputs(tt.score, 10, 95))
		assert.Equal(t, tt.want, d.Action, "score %.1f", tt.score)
	}
}

func TestGate_StrictAgeDowngradesAuto(t *testing.T) {
	th := testThresholds()
	th.MaxTokenAgeStrict = 5 * time.Minute

	in := inputs(90, 10, 95)
	in.Bundle.TokenAge = 20 * time.Minute
	d := Evaluate(th, in)
	assert.Equal(t, ActionManualRecommend, d.Action)

	in.Bundle.TokenAge = 2 * time.Minute
	d = Evaluate(th, in)
	assert.Equal(t, ActionAutoExecute, d.Action)
}

func TestGate_ReasonOrdering(t *testing.T) {
	in := inputs(50, 10, 95)
	in.Outcomes = []rules.Outcome{
		{RuleKey: "lp_concentration", Passed: false, Reason: "LP concentration 85.0% above 80%", Critical: true},
		{RuleKey: "price_spike", Passed: false, Reason: "price moved 400% in window"}, // non-critical, excluded
	}
	in.Cap = scoring.CapResult{FlagCount: 1, Flags: []string{"lp_concentration 85.0% > 80%"}, Cap: 75, Applied: true}

	d := Evaluate(testThresholds(), in)
	require.Len(t, d.Reasons, 3)
	assert.Contains(t, d.Reasons[0], "lp_concentration:")
	assert.Contains(t, d.Reasons[1], "cap 75 applied")
	assert.Contains(t, d.Reasons[2], "below manual threshold")
}

func TestShouldRelax(t *testing.T) {
	th := testThresholds()
	young := &signal.Bundle{TokenAge: 90 * time.Second}
	old := &signal.Bundle{TokenAge: 10 * time.Minute}

	assert.True(t, ShouldRelax(th, young))
	assert.False(t, ShouldRelax(th, old))

	th.AgeAdaptive = false
	assert.False(t, ShouldRelax(th, young))
}
