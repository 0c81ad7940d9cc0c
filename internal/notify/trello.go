package notify

import (
	"context"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/trello"
	"lead-intake/internal/models"
)

type cardCreator interface {
	CreateCard(ctx context.Context, card *trello.Card) (string, error)
}

// TrelloNotifier creates a card on a board list for every lead.
type TrelloNotifier struct {
	client     cardCreator
	listID     string
	configured bool
}

func NewTrelloNotifier(cfg config.TrelloConfig) *TrelloNotifier {
	return &TrelloNotifier{
		client:     trello.NewClient(cfg.Key, cfg.Token, cfg.BaseURL, config.GetDuration(cfg.Timeout)),
		listID:     cfg.ListID,
		configured: cfg.Key != "" && cfg.Token != "" && cfg.ListID != "",
	}
}

func (n *TrelloNotifier) Name() string { return "trello" }

func (n *TrelloNotifier) Configured() bool { return n.configured }

func (n *TrelloNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	_, err := n.client.CreateCard(ctx, &trello.Card{
		ListID:      n.listID,
		Name:        Title(record),
		Description: Description(record),
	})
	return err
}
