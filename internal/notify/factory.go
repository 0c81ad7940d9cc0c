package notify

import (
	"context"

	"lead-intake/internal/common/aws"
	"lead-intake/internal/common/camunda"
	"lead-intake/internal/common/config"
	"lead-intake/internal/common/logger"
)

// Build constructs every notifier from cfg. Notifiers missing their settings
// are still returned and simply report Configured() == false. The returned
// func releases client connections.
func Build(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) ([]Notifier, func()) {
	notifiers := []Notifier{
		NewTrelloNotifier(cfg.Trello),
		NewWebhookNotifier(cfg.Webhook),
	}
	closers := []func(){}

	email := NewEmailNotifier(nil, cfg.Email.From, cfg.Email.To)
	if cfg.Email.Region != "" && cfg.Email.From != "" && len(cfg.Email.To) > 0 {
		if sesClient, err := aws.NewSESClient(ctx, cfg.Email.Region); err != nil {
			log.Warn("Email notifier disabled", map[string]interface{}{"error": err})
		} else {
			email.sender = sesClient
		}
	}
	notifiers = append(notifiers, email)

	sms := NewSMSNotifier(nil, cfg.SMS.TopicARN)
	if cfg.SMS.Region != "" && cfg.SMS.TopicARN != "" {
		if snsClient, err := aws.NewSNSClient(ctx, cfg.SMS.Region); err != nil {
			log.Warn("SMS notifier disabled", map[string]interface{}{"error": err})
		} else {
			sms.publisher = snsClient
		}
	}
	notifiers = append(notifiers, sms)

	workflow := NewWorkflowNotifier(nil, cfg.Workflow.ProcessID)
	if cfg.Workflow.GatewayAddress != "" && cfg.Workflow.ProcessID != "" {
		zc, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Workflow.GatewayAddress,
			UsePlaintextConnection: cfg.Workflow.Plaintext,
			RequestTimeout:         config.GetDuration(cfg.Workflow.Timeout),
		})
		if err != nil {
			log.Warn("Workflow notifier disabled", map[string]interface{}{"error": err})
		} else {
			if err := zc.HealthCheck(ctx); err != nil {
				log.Warn("Zeebe gateway not reachable yet", map[string]interface{}{
					"gatewayAddress": cfg.Workflow.GatewayAddress,
					"errorType":      camunda.ClassifyZeebeError(err),
				})
			}
			workflow.creator = zc
			closers = append(closers, func() { _ = zc.Close() })
		}
	}
	notifiers = append(notifiers, workflow)

	return notifiers, func() {
		for _, c := range closers {
			c()
		}
	}
}
