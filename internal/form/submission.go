// Package form models an inbound contact-form submission and its validation
// rules. A Submission is constructed once per request and never mutated.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field length bounds enforced before any downstream stage runs
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 5000
	MaxTokenLength   = 2048
)

// validate is the shared validator instance for submission structs
var validate = validator.New(validator.WithRequiredStructEnabled())

// Submission is a parsed contact-form payload. The Company field is the
// honeypot decoy: it is hidden from human visitors and must arrive empty.
type Submission struct {
	Name         string    `json:"name" validate:"required,max=100"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	Message      string    `json:"message" validate:"required,max=5000"`
	Company      string    `json:"company"`
	RenderedAt   Timestamp `json:"renderedAt"`
	CaptchaToken string    `json:"captchaToken" validate:"required,max=2048"`
}

// Timestamp accepts either an RFC 3339 string or epoch milliseconds, since
// the form script has shipped both encodings over time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for both wire encodings
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}

		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
		}

		t.Time = parsed

		return nil
	}

	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}

	t.Time = time.UnixMilli(millis)

	return nil
}

// FieldError describes the first validation violation found in a submission.
// Message is safe to surface to the client.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Message
}

// Validate checks required fields, length bounds, and email shape. It returns
// nil when the submission is well formed, otherwise a FieldError with a
// client-safe message for the first violation.
func (s *Submission) Validate() *FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0])
	}

	return &FieldError{Message: "invalid submission"}
}

// fieldError maps a validator violation to a client-safe message
func fieldError(fe validator.FieldError) *FieldError {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return &FieldError{Field: field, Message: field + " required"}
	case "email":
		return &FieldError{Field: field, Message: "email address is invalid"}
	case "max":
		return &FieldError{Field: field, Message: field + " exceeds maximum length"}
	default:
		return &FieldError{Field: field, Message: field + " is invalid"}
	}
}

// EscapedName returns the name with HTML metacharacters neutralized, safe for
// HTML-rendering sinks such as the notification email body.
func (s *Submission) EscapedName() string {
	return html.EscapeString(s.Name)
}

// EscapedEmail returns the email address with HTML metacharacters neutralized
func (s *Submission) EscapedEmail() string {
	return html.EscapeString(s.Email)
}

// EscapedMessage returns the message with HTML metacharacters neutralized and
// line breaks rendered as <br> tags
func (s *Submission) EscapedMessage() string {
	escaped := html.EscapeString(s.Message)

	return strings.ReplaceAll(escaped, "\n", "<br>")
}
