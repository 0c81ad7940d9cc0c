package notify

import (
	"context"

	"lead-intake/internal/models"
)

type topicPublisher interface {
	PublishToTopic(ctx context.Context, topicARN, subject, message string) (string, error)
}

// SMSNotifier publishes a short alert to an SNS topic with SMS subscribers.
type SMSNotifier struct {
	publisher topicPublisher
	topicARN  string
}

func NewSMSNotifier(publisher topicPublisher, topicARN string) *SMSNotifier {
	return &SMSNotifier{publisher: publisher, topicARN: topicARN}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Configured() bool {
	return n.publisher != nil && n.topicARN != ""
}

func (n *SMSNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	_, err := n.publisher.PublishToTopic(ctx, n.topicARN, "", Title(record)+" ("+record.RequestID+")")
	return err
}
