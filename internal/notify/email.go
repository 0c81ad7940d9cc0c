package notify

import (
	"context"

	"lead-intake/internal/models"
)

type emailSender interface {
	SendText(ctx context.Context, from string, to []string, subject, body string) (string, error)
}

// EmailNotifier mails the lead summary through SES.
type EmailNotifier struct {
	sender emailSender
	from   string
	to     []string
}

func NewEmailNotifier(sender emailSender, from string, to []string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Configured() bool {
	return n.sender != nil && n.from != "" && len(n.to) > 0
}

func (n *EmailNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	_, err := n.sender.SendText(ctx, n.from, n.to, Title(record), Description(record))
	return err
}
