// Package slack posts household summaries to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mealprep"
)

// Client posts plain-text messages to one incoming webhook.
type Client struct {
	webhookURL string
	httpClient mealprep.HTTPClient
}

var _ mealprep.SlackClient = (*Client)(nil)

type webhookPayload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// NewClient uses http.DefaultClient when httpClient is nil.
func NewClient(webhookURL string, httpClient mealprep.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{webhookURL: webhookURL, httpClient: httpClient}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	body, err := json.Marshal(webhookPayload{Channel: channel, Text: message})
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}
	return nil
}
