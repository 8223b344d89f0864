package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theopenlane/httpsling"
)

// sendPath is the API path for sending an email
const sendPath = "/emails"

// Email is a single transactional message. HTML must already be escaped by
// the caller; this package does not sanitize content.
type Email struct {
	ReplyTo string
	Subject string
	HTML    string
}

// sendRequest is the email API request body
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendResponse is the email API response body
type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers the message and returns the provider's message id
func (c *Client) Send(ctx context.Context, msg Email) (string, error) {
	body := sendRequest{
		From:    c.from,
		To:      []string{c.to},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+sendPath),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiKey),
		httpsling.Body(body),
		httpsling.JSON(false),
		httpsling.WithUnmarshaler(&httpsling.JSONMarshaler{}),
		httpsling.WithDoer(c.httpClient),
	)

	var result sendResponse

	resp, err := requester.ReceiveWithContext(ctx, &result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return result.ID, nil
}
