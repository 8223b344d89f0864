package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/types"
)

// genericRejectMessage is returned for spam-heuristic and captcha rejections.
// It is deliberately vague: the response must not reveal which check fired.
const genericRejectMessage = "submission rejected"

// ContactResponse is the envelope returned for every outcome
type ContactResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	Error     string `json:"error,omitempty"`
}

// decodeJSONBody decodes a request body with strict unknown-field and trailing-token checks.
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		return ErrMultipleJSONObjects
	}

	return nil
}

// writeJSON writes a JSON response and logs serialization failures.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}

// writeReject writes the rejection response for an outcome
func writeReject(w http.ResponseWriter, outcome types.Outcome, message string) {
	writeJSON(w, statusForOutcome(outcome), ContactResponse{
		Success: false,
		Error:   message,
	})
}

// statusForOutcome maps an outcome to its HTTP status code
func statusForOutcome(outcome types.Outcome) int {
	switch outcome {
	case types.OutcomeAccepted:
		return http.StatusOK
	case types.OutcomeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
