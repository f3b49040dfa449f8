package services

import "errors"

// Error kinds returned by the mission engine. Callers match with
// errors.Is; controllers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrUnavailable  = errors.New("storage unavailable")
)
