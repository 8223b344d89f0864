package form

import "errors"

var (
	// ErrInvalidTimestamp is returned when the renderedAt field is neither an
	// RFC 3339 string nor epoch milliseconds
	ErrInvalidTimestamp = errors.New("invalid renderedAt timestamp")
)
