package webhook

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theopenlane/httpsling"
)

// Message represents a Discord webhook message payload
type Message struct {
	// Content is the plain-text body of the message
	Content string `json:"content,omitempty"`
	// Embeds holds the rich embed blocks for the message
	Embeds []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord rich embed
type Embed struct {
	// Title is the embed title
	Title string `json:"title,omitempty"`
	// Description is the embed body text
	Description string `json:"description,omitempty"`
	// Color is the accent color as a decimal RGB value
	Color int `json:"color,omitempty"`
	// Fields holds the name/value pairs shown in the embed
	Fields []EmbedField `json:"fields,omitempty"`
	// Timestamp is an ISO 8601 timestamp shown in the embed footer
	Timestamp string `json:"timestamp,omitempty"`
}

// EmbedField represents a single name/value pair in an embed
type EmbedField struct {
	// Name is the field label
	Name string `json:"name"`
	// Value is the field content
	Value string `json:"value"`
	// Inline renders the field alongside its neighbors
	Inline bool `json:"inline,omitempty"`
}

// Send posts a message to the configured webhook. Discord answers incoming
// webhooks with 204 No Content.
func (c *Client) Send(ctx context.Context, msg Message) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.webhookURL),
		httpsling.Post(),
		httpsling.Body(msg),
		httpsling.JSON(false),
		httpsling.WithDoer(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
