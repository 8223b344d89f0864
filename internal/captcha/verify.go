package captcha

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/theopenlane/httpsling"
)

// verifyRequest is the siteverify request body
type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

// verifyResponse is the siteverify response body
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with the verification service, exactly once per
// call. A nil return means the token was confirmed as human-issued. Any
// transport failure, unexpected status, or negative verdict is an error;
// retries belong to the submitting client, not to this server.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.verifyURL),
		httpsling.Post(),
		httpsling.Body(verifyRequest{
			Secret:   c.secretKey,
			Response: token,
			RemoteIP: remoteIP,
		}),
		httpsling.JSON(false),
		httpsling.WithUnmarshaler(&httpsling.JSONMarshaler{}),
		httpsling.WithDoer(c.httpClient),
	)

	var result verifyResponse

	resp, err := requester.ReceiveWithContext(ctx, &result)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", ErrTokenRejected, strings.Join(result.ErrorCodes, ", "))
	}

	return nil
}
