package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchgate/launchgate/internal/scoring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launchgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
weights:
  safety: 0.40
  liquidity: 0.30
  market: 0.15
  advanced: 0.15
thresholds:
  auto_min_score: 85
  manual_min_score: 65
  rug_hard_block: 75
  rug_reduce_size: 55
  confidence_block: 25
  confidence_reduce: 45
  max_token_age_strict_seconds: 600
  age_adaptive: false
rules:
  price_spike: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.40, cfg.Weights["safety"])
	assert.Equal(t, 85.0, cfg.Thresholds.AutoMinScore)
	assert.False(t, cfg.Thresholds.AgeAdaptive)
	assert.False(t, cfg.Rules["price_spike"])

	rt := cfg.RuntimeThresholds()
	assert.Equal(t, 10*time.Minute, rt.MaxTokenAgeStrict)
}

func TestLoad_RejectsBadWeightSum(t *testing.T) {
	path := writeConfig(t, `
weights:
  safety: 0.30
  liquidity: 0.25
  market: 0.20
  advanced: 0.17
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrWeightSum)
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := writeConfig(t, `
weights:
  safety: 0.5
  vibes: 0.5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.AutoMinScore = 50
	cfg.Thresholds.ManualMinScore = 60
	assert.Error(t, cfg.Validate(), "auto below manual is inconsistent")

	cfg = Default()
	cfg.Thresholds.RugHardBlock = 40
	cfg.Thresholds.RugReduceSize = 50
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Thresholds.ConfidenceBlock = 60
	cfg.Thresholds.ConfidenceReduce = 50
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Thresholds.MaxTokenAgeStrictSeconds = -1
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
