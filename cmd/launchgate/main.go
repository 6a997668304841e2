package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "launchgate"
	version = "v1.2.0"
)

func main() {
	_ = godotenv.Load() // optional .env, absence is fine

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Risk-scoring and trade-gating engine for newly launched tokens",
		Version: version,
		Long: `LaunchGate scores a snapshot of signals about a newly observed token —
liquidity, holder distribution, buyer behavior, deployer history, sell-route
viability — into a bounded 0-100 risk score and a trade-admission decision:
auto-execute, manual-recommend, reduce-size, or block.`,
	}

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one signal bundle from a JSON file",
		Long:  "Runs the full rule/scoring/gate pipeline over a bundle and prints the decision report",
		RunE:  runEvaluate,
	}
	evaluateCmd.Flags().String("bundle", "", "Path to signal bundle JSON (required)")
	evaluateCmd.Flags().String("config", "", "Path to config YAML (built-in defaults if empty)")
	evaluateCmd.Flags().Float64("rug-probability", 0, "Upstream rug-probability estimate (0-100)")
	evaluateCmd.Flags().Float64("data-confidence", 100, "Upstream data-confidence estimate (0-100)")
	evaluateCmd.Flags().Bool("json", false, "Emit the full evaluation as JSON instead of the report")
	_ = evaluateCmd.MarkFlagRequired("bundle")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP evaluation server",
		Long:  "Serves POST /evaluate, GET /health, GET /metrics, POST /config/reload",
		RunE:  runServe,
	}
	serveCmd.Flags().String("config", "", "Path to config YAML (built-in defaults if empty)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file without starting anything",
		RunE:  runConfigValidate,
	}
	validateCmd.Flags().String("config", "", "Path to config YAML (required)")
	_ = validateCmd.MarkFlagRequired("config")
	configCmd.AddCommand(validateCmd)

	rootCmd.AddCommand(evaluateCmd, serveCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
