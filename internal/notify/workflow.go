package notify

import (
	"context"

	"lead-intake/internal/models"
)

type instanceCreator interface {
	CreateInstance(ctx context.Context, processID string, vars map[string]interface{}) (int64, error)
}

// WorkflowNotifier starts a BPMN process instance carrying the lead.
type WorkflowNotifier struct {
	creator   instanceCreator
	processID string
}

func NewWorkflowNotifier(creator instanceCreator, processID string) *WorkflowNotifier {
	return &WorkflowNotifier{creator: creator, processID: processID}
}

func (n *WorkflowNotifier) Name() string { return "workflow" }

func (n *WorkflowNotifier) Configured() bool {
	return n.creator != nil && n.processID != ""
}

func (n *WorkflowNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	vars := record.Columns()
	vars["requestId"] = record.RequestID
	_, err := n.creator.CreateInstance(ctx, n.processID, vars)
	return err
}
