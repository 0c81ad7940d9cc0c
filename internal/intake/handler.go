package intake

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/errors"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/common/observability"
	"lead-intake/internal/notify"
	"lead-intake/internal/store"

	"github.com/go-chi/chi/v5/middleware"
)

// Handler adapts the pipeline to HTTP.
type Handler struct {
	config   *Config
	logger   logger.Logger
	pipeline *Pipeline
	errors   *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Store         store.Store
	Fanout        *notify.Fanout
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}

	pipeline, err := NewPipeline(ServiceDependencies{
		Logger:        loggerInstance,
		Store:         opts.Store,
		Fanout:        opts.Fanout,
		Observability: opts.Observability,
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake pipeline: %w", err)
	}

	return &Handler{
		config:   cfg,
		logger:   loggerInstance,
		pipeline: pipeline,
		errors:   errors.NewErrorHandler(loggerInstance),
	}, nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if appConfig.Server.MaxBodyBytes > 0 {
			cfg.MaxBodyBytes = appConfig.Server.MaxBodyBytes
		}
		if appConfig.Storage.Timeout > 0 {
			cfg.StoreTimeout = config.GetDuration(appConfig.Storage.Timeout)
		}
	}
	return cfg
}

// ServeHTTP accepts POST only. CORS preflight is answered by middleware
// before it reaches here.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := map[string]interface{}{
		"requestTraceId": middleware.GetReqID(r.Context()),
		"remoteAddr":     r.RemoteAddr,
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost+", "+http.MethodOptions)
		h.errors.WriteError(w, errors.NewMethodNotAllowedError(r.Method), fields)
		return
	}

	h.logger.Info("Intake request received", fields)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		h.errors.WriteError(w, errors.NewInvalidJSONError(err), fields)
		return
	}

	result := h.pipeline.Process(r.Context(), body)
	fields["state"] = string(result.State)
	if result.Record != nil {
		fields["requestId"] = result.Record.RequestID
	}

	if result.Err != nil {
		h.errors.WriteError(w, result.Err, fields)
		return
	}

	h.logger.Info("Intake request completed", fields)
	errors.WriteJSON(w, http.StatusOK, result.Response)
}
