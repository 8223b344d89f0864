// Package captcha verifies client-supplied challenge tokens against the
// Cloudflare Turnstile siteverify endpoint. Verification is fail-closed: a
// token that cannot be confirmed is treated as non-human.
package captcha

import (
	"net/http"
	"time"
)

const (
	// defaultVerifyURL is the Turnstile token verification endpoint
	defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	// defaultRequestTimeout bounds a single verification call; timeouts are
	// rejections, not silent passes
	defaultRequestTimeout = 5 * time.Second
)

// Client calls the challenge verification service
type Client struct {
	secretKey  string
	verifyURL  string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for verification calls
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithVerifyURL overrides the verification endpoint, used by tests
func WithVerifyURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.verifyURL = url
		}
	}
}

// New creates a verification client with the provided secret key
func New(secretKey string, opts ...Option) (*Client, error) {
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	client := &Client{
		secretKey:  secretKey,
		verifyURL:  defaultVerifyURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
