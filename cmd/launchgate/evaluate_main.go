package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/engine"
	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/signal"
)

func loadConfigFlag(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	bundlePath, _ := cmd.Flags().GetString("bundle")
	rugProbability, _ := cmd.Flags().GetFloat64("rug-probability")
	dataConfidence, _ := cmd.Flags().GetFloat64("data-confidence")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	var bundle signal.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("parse bundle %s: %w", bundlePath, err)
	}
	if bundle.Mint == "" {
		return fmt.Errorf("bundle %s has no mint", bundlePath)
	}

	eng, err := engine.New(cfg, log.Logger)
	if err != nil {
		return err
	}

	eval, err := eng.Evaluate(&bundle, rugProbability, dataConfidence)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	}
	fmt.Print(eval.Report())
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Int("weights", len(cfg.Weights)).
		Int("rule_toggles", len(cfg.Rules)).
		Strs("known_rules", rules.RuleKeys()).
		Msg("configuration valid")
	return nil
}
