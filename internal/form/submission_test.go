package form

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() *Submission {
	return &Submission{
		Name:         "Jordan Kim",
		Email:        "jordan@example.com",
		Message:      "Hello, I'd like to get in touch.",
		RenderedAt:   Timestamp{time.Now().Add(-time.Minute)},
		CaptchaToken: "tok-abc123",
	}
}

func TestValidateAccepts(t *testing.T) {
	require.Nil(t, validSubmission().Validate())
}

func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Submission)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(s *Submission) { s.Name = "" },
			field:   "name",
			message: "name required",
		},
		{
			name:    "missing email",
			mutate:  func(s *Submission) { s.Email = "" },
			field:   "email",
			message: "email required",
		},
		{
			name:    "invalid email",
			mutate:  func(s *Submission) { s.Email = "not-an-address" },
			field:   "email",
			message: "email address is invalid",
		},
		{
			name:    "missing message",
			mutate:  func(s *Submission) { s.Message = "" },
			field:   "message",
			message: "message required",
		},
		{
			name:    "missing captcha token",
			mutate:  func(s *Submission) { s.CaptchaToken = "" },
			field:   "captchatoken",
			message: "captchatoken required",
		},
		{
			name:    "name too long",
			mutate:  func(s *Submission) { s.Name = strings.Repeat("a", MaxNameLength+1) },
			field:   "name",
			message: "name exceeds maximum length",
		},
		{
			name:    "message too long",
			mutate:  func(s *Submission) { s.Message = strings.Repeat("a", MaxMessageLength+1) },
			field:   "message",
			message: "message exceeds maximum length",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(sub)

			ferr := sub.Validate()
			require.NotNil(t, ferr)
			assert.Equal(t, tc.field, ferr.Field)
			assert.Equal(t, tc.message, ferr.Message)
		})
	}
}

func TestEscapedFieldsNeutralizeMarkup(t *testing.T) {
	sub := validSubmission()
	sub.Name = `Bob <b>"bold"</b>`
	sub.Message = "<script>alert(1)</script>\nsecond line"

	assert.NotContains(t, sub.EscapedName(), "<b>")
	assert.NotContains(t, sub.EscapedMessage(), "<script>")
	assert.Contains(t, sub.EscapedMessage(), "&lt;script&gt;")
	assert.Contains(t, sub.EscapedMessage(), "<br>", "line breaks should become <br>")
}

func TestTimestampDecodesRFC3339(t *testing.T) {
	var ts Timestamp

	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T12:00:00Z"`), &ts))
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), ts.Time)
}

func TestTimestampDecodesEpochMillis(t *testing.T) {
	var ts Timestamp

	require.NoError(t, json.Unmarshal([]byte(`1717243200000`), &ts))
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), ts.Time.UTC())
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp

	err := json.Unmarshal([]byte(`"yesterday"`), &ts)
	require.Error(t, err)
}

func TestTimestampTolerateNull(t *testing.T) {
	var ts Timestamp

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestSubmissionDecodesWirePayload(t *testing.T) {
	payload := `{
		"name": "Jordan Kim",
		"email": "jordan@example.com",
		"message": "hi",
		"company": "",
		"renderedAt": "2024-06-01T12:00:00Z",
		"captchaToken": "tok-1"
	}`

	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(payload), &sub))

	assert.Equal(t, "Jordan Kim", sub.Name)
	assert.Empty(t, sub.Company)
	assert.False(t, sub.RenderedAt.IsZero())
}
