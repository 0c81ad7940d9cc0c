package intake

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"lead-intake/internal/common/errors"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/common/metrics"
	"lead-intake/internal/common/observability"
	"lead-intake/internal/models"
	"lead-intake/internal/notify"
	"lead-intake/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// Pipeline runs validate, identify, store and notify strictly in that order.
// Nothing is forwarded to a notifier unless the store write succeeded.
type Pipeline struct {
	config    *Config
	logger    logger.Logger
	validator *Validator
	ids       *IdentifierGenerator
	store     store.Store
	fanout    *notify.Fanout
	obs       *observability.Observability
}

func NewPipeline(deps ServiceDependencies, config *Config) (*Pipeline, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid intake configuration: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	fanout := deps.Fanout
	if fanout == nil {
		fanout = notify.NewFanout(log, notify.DefaultTimeout)
	}

	return &Pipeline{
		config:    config,
		logger:    log,
		validator: NewValidator(),
		ids:       NewIdentifierGenerator(deps.Now, deps.NewUUID),
		store:     deps.Store,
		fanout:    fanout,
		obs:       deps.Observability,
	}, nil
}

// Process runs one submission to a terminal state. Every call that passes
// validation writes a new record, so resubmitting the same body yields a new
// request id.
func (p *Pipeline) Process(ctx context.Context, body []byte) *Result {
	start := time.Now()
	ctx, end := p.track(ctx, "process")

	result := p.run(ctx, body)

	end(string(result.State))
	metrics.IntakeRequests.WithLabelValues(string(result.State)).Inc()
	metrics.IntakeRequestDuration.WithLabelValues(string(result.State)).Observe(time.Since(start).Seconds())
	return result
}

func (p *Pipeline) run(ctx context.Context, body []byte) *Result {
	// Received -> Validated
	_, end := p.track(ctx, "validate")
	fields, err := p.validator.Validate(body)
	if err != nil {
		state := StateRejectedInvalidPayload
		if errors.Normalize(err).Code == errors.ErrCodeValidationError {
			state = StateRejectedValidation
		}
		end(string(state))
		return &Result{State: state, Err: err}
	}
	end(string(StateValidated))

	requestID, createdAt := p.ids.Generate()
	record := &models.IntakeRecord{
		RequestID:    requestID,
		CreatedAt:    createdAt,
		Status:       models.IntakeStatusNew,
		IntakeFields: *fields,
	}

	// Validated -> Stored
	if state, err := p.persist(ctx, record); err != nil {
		return &Result{State: state, Record: record, Err: err}
	}
	p.logger.Info("Intake request stored", map[string]interface{}{
		"requestId": record.RequestID,
		"driver":    p.store.Driver(),
	})

	// Stored -> Notified. Notification outlives a cancelled request.
	nctx, end := p.track(context.WithoutCancel(ctx), "notify")
	outcome := p.fanout.Notify(nctx, record)
	notifyResult := "delivered"
	if !outcome.AllDelivered() {
		notifyResult = "partial"
	}
	end(notifyResult)

	// Notified -> Completed
	resp := &Response{
		OK:        true,
		RequestID: record.RequestID,
		CreatedAt: record.CreatedAt,
		Stored:    true,
		Message:   p.config.SuccessMessage,
	}
	if p.config.IncludeNotifications && len(outcome) > 0 {
		resp.Notifications = outcome
	}
	return &Result{State: StateCompleted, Record: record, Response: resp}
}

func (p *Pipeline) persist(ctx context.Context, record *models.IntakeRecord) (State, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.StoreTimeout)
	defer cancel()

	ctx, end := p.track(ctx, "store", attribute.String("driver", p.store.Driver()))

	err := func() error {
		table, err := p.store.EnsureTable(ctx)
		if err != nil {
			return err
		}
		return table.Put(ctx, record)
	}()

	if err == nil {
		metrics.StoreWrites.WithLabelValues(p.store.Driver(), "ok").Inc()
		end(string(StateStored))
		return StateStored, nil
	}

	var nc *store.NotConfiguredError
	if stderrors.As(err, &nc) {
		metrics.StoreWrites.WithLabelValues(p.store.Driver(), "not_configured").Inc()
		end(string(StateFailedStorageNotConfigured))
		return StateFailedStorageNotConfigured, errors.NewMissingStorageError(nc.Setting, err)
	}

	result := "error"
	if stderrors.Is(err, store.ErrDuplicate) {
		result = "duplicate"
	}
	metrics.StoreWrites.WithLabelValues(p.store.Driver(), result).Inc()
	p.logger.Error("Intake request not stored", map[string]interface{}{
		"requestId": record.RequestID,
		"driver":    p.store.Driver(),
		"error":     err,
	})
	end(string(StateFailedStorageError))
	return StateFailedStorageError, errors.NewStorageError(err)
}

// track opens a span for stage and returns a func closing it with result.
func (p *Pipeline) track(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, func(result string)) {
	if p.obs == nil {
		return ctx, func(string) {}
	}
	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "intake."+stage, attrs...)
	return ctx, func(result string) {
		span.SetAttributes(attribute.String("result", result))
		span.End()
		p.obs.RecordStage(ctx, stage, result, time.Since(start))
	}
}
