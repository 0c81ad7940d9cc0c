// Package server hosts the intake handler alongside health, readiness and
// metrics endpoints.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/errors"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readyTimeout = 5 * time.Second

type Options struct {
	Config  *config.Config
	Intake  http.Handler
	Store   store.Store
	Logger  logger.Logger
	Metrics http.Handler // defaults to promhttp.Handler()
}

type Server struct {
	http            *http.Server
	logger          logger.Logger
	shutdownTimeout time.Duration
}

func New(opts Options) *Server {
	cfg := opts.Config.Server
	return &Server{
		http: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(opts),
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
		logger:          opts.Logger,
		shutdownTimeout: config.GetDuration(cfg.ShutdownTimeout),
	}
}

// NewRouter wires the intake route and the operational endpoints.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		MaxAge:         300,
	}))

	route := opts.Config.Server.Route
	r.Handle(route, opts.Intake)
	// A bare OPTIONS without preflight headers is acknowledged the same way.
	r.Options(route, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/health", health)
	r.Get("/ready", ready(opts.Store, opts.Logger))

	if opts.Config.Metrics.Enabled {
		metrics := opts.Metrics
		if metrics == nil {
			metrics = promhttp.Handler()
		}
		r.Method(http.MethodGet, opts.Config.Metrics.Path, metrics)
	}

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ready reports whether the record table can be reached right now.
func ready(s store.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if _, err := s.EnsureTable(ctx); err != nil {
			status := "unavailable"
			if stderrors.Is(err, store.ErrNotConfigured) {
				status = "not_configured"
			}
			log.Warn("Readiness check failed", map[string]interface{}{
				"driver": s.Driver(),
				"error":  err.Error(),
			})
			errors.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": status,
				"driver": s.Driver(),
			})
			return
		}

		errors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"driver": s.Driver(),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.http.Addr})
		if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received, draining requests", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
