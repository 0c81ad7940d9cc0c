package main

import (
	"context"
	"fmt"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/common/observability"
	"lead-intake/internal/notify"
	"lead-intake/internal/store"

	"go.uber.org/zap"
)

// app holds everything the subcommands share.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	store  store.Store
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func bootstrap() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)

	s, err := store.New(cfg.Storage)
	if err != nil {
		_ = zapLog.Sync()
		return nil, fmt.Errorf("record store init failed: %w", err)
	}

	return &app{cfg: cfg, zapLog: zapLog, log: log, store: s}, nil
}

// buildFanout constructs every notifier and keeps the configured ones.
func (a *app) buildFanout(ctx context.Context) (*notify.Fanout, func()) {
	notifiers, closeNotifiers := notify.Build(ctx, a.cfg.Notifications, a.log)
	fanout := notify.NewFanout(a.log, notify.DefaultTimeout, notifiers...)
	a.log.Info("Notifiers configured", map[string]interface{}{"notifiers": fanout.Names()})
	return fanout, closeNotifiers
}

func (a *app) newObservability() *observability.Observability {
	obs, err := observability.New(a.cfg.App.Name)
	if err != nil {
		a.log.Warn("Prometheus exporter unavailable, otel metrics disabled", map[string]interface{}{"error": err.Error()})
	}
	obs.SetGlobal()
	return obs
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("Error closing record store", map[string]interface{}{"error": err.Error()})
	}
	_ = a.zapLog.Sync()
}
