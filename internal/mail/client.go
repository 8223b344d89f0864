// Package mail delivers the contact notification email through the Resend
// transactional email API.
package mail

import (
	"net/http"
	"time"
)

const (
	// defaultBaseURL is the root endpoint for the Resend API
	defaultBaseURL = "https://api.resend.com"
	// defaultRequestTimeout is the default timeout for email API requests
	defaultRequestTimeout = 10 * time.Second
)

// Client sends transactional email
type Client struct {
	apiKey     string
	from       string
	to         string
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for email API requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default email API base URL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// New creates an email client delivering from the given sender to the given
// recipient
func New(apiKey, from, to string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if from == "" || to == "" {
		return nil, ErrMissingAddress
	}

	client := &Client{
		apiKey:     apiKey,
		from:       from,
		to:         to,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
