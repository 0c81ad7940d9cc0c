package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	commonhttp "lead-intake/internal/common/http"
)

const DefaultBaseURL = "https://api.trello.com/1"

// Client creates cards on a Trello board list.
type Client struct {
	key        string
	token      string
	baseURL    string
	httpClient *commonhttp.Client
}

type Card struct {
	ListID      string
	Name        string
	Description string
}

type createCardResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"shortUrl"`
}

func NewClient(key, token, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		key:        key,
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: commonhttp.NewClient(timeout),
	}
}

// CreateCard creates the card and returns its id.
func (c *Client) CreateCard(ctx context.Context, card *Card) (string, error) {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("token", c.token)
	params.Set("idList", card.ListID)
	params.Set("name", card.Name)
	params.Set("desc", card.Description)

	resp, err := c.httpClient.PostQuery(ctx, c.baseURL+"/cards", params)
	if err != nil {
		return "", err
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("failed to create card (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	var created createCardResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return created.ID, nil
}
