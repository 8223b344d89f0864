package api

import "errors"

var (
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrOriginNotAllowed is returned when the request origin does not match the configured origin
	ErrOriginNotAllowed = errors.New("origin not allowed")
)
