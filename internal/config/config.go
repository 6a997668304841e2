package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/scoring"
)

// Config is the full operator-facing configuration: category weights,
// threshold set, per-rule enable toggles, and the serve-mode settings.
// It is loaded from YAML, validated before use, and never mutated after
// publication: updates load a fresh Config and swap it in whole.
type Config struct {
	Weights    map[string]float64 `yaml:"weights"`
	Thresholds ThresholdsConfig   `yaml:"thresholds"`
	Rules      map[string]bool    `yaml:"rules"`
	Server     ServerConfig       `yaml:"server"`
	Reload     ReloadConfig       `yaml:"reload"`
}

// ThresholdsConfig is the YAML shape of the threshold set
type ThresholdsConfig struct {
	AutoMinScore             float64 `yaml:"auto_min_score"`               // minimum score for automatic execution
	ManualMinScore           float64 `yaml:"manual_min_score"`             // minimum score for manual recommendation
	RugHardBlock             float64 `yaml:"rug_hard_block"`               // rug probability hard-block level
	RugReduceSize            float64 `yaml:"rug_reduce_size"`              // rug probability reduce-size level
	ConfidenceBlock          float64 `yaml:"confidence_block"`             // data confidence block level
	ConfidenceReduce         float64 `yaml:"confidence_reduce"`            // data confidence reduce level
	MaxTokenAgeStrictSeconds int     `yaml:"max_token_age_strict_seconds"` // 0 = strict mode disabled
	AgeAdaptive              bool    `yaml:"age_adaptive"`                 // relax behavioral rules for very young tokens
}

// Thresholds is the validated runtime form consumed by the gate
type Thresholds struct {
	AutoMinScore      float64
	ManualMinScore    float64
	RugHardBlock      float64
	RugReduceSize     float64
	ConfidenceBlock   float64
	ConfidenceReduce  float64
	MaxTokenAgeStrict time.Duration
	AgeAdaptive       bool
}

// ServerConfig holds serve-mode HTTP settings
type ServerConfig struct {
	Host                string  `yaml:"host"`
	Port                int     `yaml:"port"`
	ReadTimeoutSeconds  int     `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int     `yaml:"write_timeout_seconds"`
	RateLimitPerSecond  float64 `yaml:"rate_limit_per_second"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`
}

// ReloadConfig schedules periodic config refresh in serve mode
type ReloadConfig struct {
	Cron string `yaml:"cron"` // robfig/cron spec, empty disables
}

// Default returns the built-in configuration used when no file is supplied
func Default() *Config {
	return &Config{
		Weights: map[string]float64{
			string(rules.CategorySafety):    0.35,
			string(rules.CategoryLiquidity): 0.25,
			string(rules.CategoryMarket):    0.20,
			string(rules.CategoryAdvanced):  0.20,
		},
		Thresholds: ThresholdsConfig{
			AutoMinScore:             80,
			ManualMinScore:           60,
			RugHardBlock:             70,
			RugReduceSize:            50,
			ConfidenceBlock:          30,
			ConfidenceReduce:         50,
			MaxTokenAgeStrictSeconds: 0, // strict mode off
			AgeAdaptive:              true,
		},
		Rules: map[string]bool{}, // all rules enabled by default
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8090,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			RateLimitPerSecond:  20,
			RateLimitBurst:      40,
		},
		Reload: ReloadConfig{Cron: ""},
	}
}

// Load reads and validates a config file
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects malformed weights and thresholds before any evaluation
// can observe them. Nothing here is ever silently defaulted.
func (c *Config) Validate() error {
	if err := c.WeightSet().Validate(); err != nil {
		return err
	}
	t := c.Thresholds
	if t.AutoMinScore < 0 || t.AutoMinScore > 100 || t.ManualMinScore < 0 || t.ManualMinScore > 100 {
		return fmt.Errorf("score thresholds must be in [0,100]")
	}
	if t.AutoMinScore < t.ManualMinScore {
		return fmt.Errorf("auto_min_score %.1f below manual_min_score %.1f", t.AutoMinScore, t.ManualMinScore)
	}
	if t.RugHardBlock < t.RugReduceSize {
		return fmt.Errorf("rug_hard_block %.1f below rug_reduce_size %.1f", t.RugHardBlock, t.RugReduceSize)
	}
	if t.ConfidenceBlock > t.ConfidenceReduce {
		return fmt.Errorf("confidence_block %.1f above confidence_reduce %.1f", t.ConfidenceBlock, t.ConfidenceReduce)
	}
	if t.MaxTokenAgeStrictSeconds < 0 {
		return fmt.Errorf("max_token_age_strict_seconds must be >= 0")
	}
	return nil
}

// WeightSet converts the YAML weight map into the scoring package's typed form
func (c *Config) WeightSet() scoring.WeightSet {
	ws := make(scoring.WeightSet, len(c.Weights))
	for name, weight := range c.Weights {
		ws[rules.Category(name)] = weight
	}
	return ws
}

// RuntimeThresholds converts the YAML thresholds into the gate's runtime form
func (c *Config) RuntimeThresholds() Thresholds {
	return Thresholds{
		AutoMinScore:      c.Thresholds.AutoMinScore,
		ManualMinScore:    c.Thresholds.ManualMinScore,
		RugHardBlock:      c.Thresholds.RugHardBlock,
		RugReduceSize:     c.Thresholds.RugReduceSize,
		ConfidenceBlock:   c.Thresholds.ConfidenceBlock,
		ConfidenceReduce:  c.Thresholds.ConfidenceReduce,
		MaxTokenAgeStrict: time.Duration(c.Thresholds.MaxTokenAgeStrictSeconds) * time.Second,
		AgeAdaptive:       c.Thresholds.AgeAdaptive,
	}
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}
