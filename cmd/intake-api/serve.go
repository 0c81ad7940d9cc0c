package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead-intake/internal/intake"
	"lead-intake/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the intake endpoint (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("Starting intake api", map[string]interface{}{
		"version":     a.cfg.App.Version,
		"environment": a.cfg.App.Environment,
		"driver":      a.store.Driver(),
		"route":       a.cfg.Server.Route,
	})

	obs := a.newObservability()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	fanout, closeNotifiers := a.buildFanout(ctx)
	defer closeNotifiers()

	handler, err := intake.NewHandler(intake.HandlerOptions{
		AppConfig:     a.cfg,
		Store:         a.store,
		Fanout:        fanout,
		Observability: obs,
		Logger:        a.log,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Config: a.cfg,
		Intake: handler,
		Store:  a.store,
		Logger: a.log,
	})
	if err := srv.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Intake api stopped gracefully", nil)
	return nil
}
