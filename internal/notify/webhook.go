package notify

import (
	"context"
	"fmt"

	"lead-intake/internal/common/config"
	commonhttp "lead-intake/internal/common/http"
	"lead-intake/internal/models"
)

// WebhookNotifier POSTs the record as JSON to a workflow endpoint.
type WebhookNotifier struct {
	url    string
	client *commonhttp.Client
}

func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookNotifier{
		url:    cfg.URL,
		client: commonhttp.NewClient(timeout),
	}
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Configured() bool { return n.url != "" }

func (n *WebhookNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	resp, err := n.client.PostJSON(ctx, n.url, record)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
