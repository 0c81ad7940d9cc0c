// Package notify delivers stored intake records to downstream systems on a
// best-effort, single-attempt basis.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"lead-intake/internal/common/logger"
	"lead-intake/internal/common/metrics"
	"lead-intake/internal/models"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// DefaultTimeout bounds every notifier call.
const DefaultTimeout = 10 * time.Second

// Notifier sends one record to one downstream system.
type Notifier interface {
	Name() string
	// Configured reports whether credentials or an endpoint were supplied.
	// Unconfigured notifiers are skipped without a trace in the outcome.
	Configured() bool
	Notify(ctx context.Context, record *models.IntakeRecord) error
}

// Delivery is the result of one notifier call.
type Delivery struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Outcome maps notifier name to its delivery result.
type Outcome map[string]Delivery

// AllDelivered reports whether every attempted notifier succeeded.
func (o Outcome) AllDelivered() bool {
	for _, d := range o {
		if !d.Delivered {
			return false
		}
	}
	return true
}

type Fanout struct {
	notifiers []Notifier
	logger    logger.Logger
	timeout   time.Duration
}

// NewFanout keeps only the configured notifiers.
func NewFanout(log logger.Logger, timeout time.Duration, notifiers ...Notifier) *Fanout {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil && n.Configured() {
			active = append(active, n)
		}
	}
	return &Fanout{notifiers: active, logger: log, timeout: timeout}
}

// Names lists the configured notifiers.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.notifiers))
	for i, n := range f.notifiers {
		names[i] = n.Name()
	}
	return names
}

// Notify calls every configured notifier concurrently, once each. Failures
// and panics are recorded in the outcome and never returned.
func (f *Fanout) Notify(ctx context.Context, record *models.IntakeRecord) Outcome {
	outcome := make(Outcome, len(f.notifiers))
	if len(f.notifiers) == 0 {
		return outcome
	}

	var (
		wg conc.WaitGroup
		mu sync.Mutex
	)
	for _, n := range f.notifiers {
		wg.Go(func() {
			d := f.deliver(ctx, n, record)
			mu.Lock()
			outcome[n.Name()] = d
			mu.Unlock()
		})
	}
	wg.Wait()

	return outcome
}

func (f *Fanout) deliver(ctx context.Context, n Notifier, record *models.IntakeRecord) Delivery {
	metrics.NotificationsInFlight.Inc()
	defer metrics.NotificationsInFlight.Dec()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	var err error
	if recovered := panics.Try(func() { err = n.Notify(ctx, record) }); recovered != nil {
		err = fmt.Errorf("notifier panicked: %v", recovered.Value)
	}

	d := Delivery{Delivered: err == nil}
	fields := map[string]interface{}{
		"notifier":   n.Name(),
		"requestId":  record.RequestID,
		"durationMs": time.Since(start).Milliseconds(),
	}
	if err != nil {
		d.Error = err.Error()
		fields["error"] = err
		f.logger.Warn("Notification failed", fields)
	} else {
		f.logger.Info("Notification delivered", fields)
	}

	metrics.Notifications.WithLabelValues(n.Name(), strconv.FormatBool(d.Delivered)).Inc()
	return d
}
