package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/engine"
	"github.com/launchgate/launchgate/internal/httpapi"
	"github.com/launchgate/launchgate/internal/metrics"
)

// configReloader re-reads the config file and republishes the engine snapshot
type configReloader struct {
	path   string
	engine *engine.Engine
}

func (r *configReloader) ReloadConfig() error {
	if r.path == "" {
		return fmt.Errorf("serve started without a config file, nothing to reload")
	}
	cfg, err := config.Load(r.path)
	if err != nil {
		return err
	}
	if err := r.engine.Reload(cfg); err != nil {
		return err
	}
	log.Info().Str("path", r.path).Msg("configuration reloaded")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, log.Logger)
	if err != nil {
		return err
	}

	reloader := &configReloader{path: configPath, engine: eng}
	metricsRegistry := metrics.NewRegistry()
	server := httpapi.NewServer(cfg.Server, eng, metricsRegistry, reloader, log.Logger)

	var scheduler *cron.Cron
	if cfg.Reload.Cron != "" && configPath != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Reload.Cron, func() {
			if err := reloader.ReloadConfig(); err != nil {
				metricsRegistry.ConfigReloads.WithLabelValues("error").Inc()
				log.Error().Err(err).Msg("scheduled config reload failed, keeping current snapshot")
				return
			}
			metricsRegistry.ConfigReloads.WithLabelValues("ok").Inc()
		}); err != nil {
			return fmt.Errorf("invalid reload cron %q: %w", cfg.Reload.Cron, err)
		}
		scheduler.Start()
		log.Info().Str("cron", cfg.Reload.Cron).Msg("scheduled config reload enabled")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
