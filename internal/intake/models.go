package intake

import (
	"time"

	"lead-intake/internal/common/logger"
	"lead-intake/internal/common/observability"
	"lead-intake/internal/models"
	"lead-intake/internal/notify"
	"lead-intake/internal/store"

	"github.com/google/uuid"
)

// State is a pipeline state. Processing only moves forward.
type State string

const (
	StateReceived  State = "received"
	StateValidated State = "validated"
	StateStored    State = "stored"
	StateNotified  State = "notified"
	StateCompleted State = "completed"

	StateRejectedInvalidPayload     State = "rejected_invalid_payload"
	StateRejectedValidation         State = "rejected_validation"
	StateFailedStorageNotConfigured State = "failed_storage_not_configured"
	StateFailedStorageError         State = "failed_storage_error"
)

// Response is the success body.
type Response struct {
	OK            bool           `json:"ok"`
	RequestID     string         `json:"requestId"`
	CreatedAt     string         `json:"createdAt"`
	Stored        bool           `json:"stored"`
	Message       string         `json:"message"`
	Notifications notify.Outcome `json:"notifications,omitempty"`
}

// Result is what one pipeline run produced. Err is set for every terminal
// state except StateCompleted.
type Result struct {
	State    State
	Record   *models.IntakeRecord
	Response *Response
	Err      error
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Store         store.Store
	Fanout        *notify.Fanout
	Observability *observability.Observability
	Now           func() time.Time
	NewUUID       func() uuid.UUID
}
