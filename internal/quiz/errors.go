package quiz

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInsufficientBank = errors.New("insufficient questions in bank")
	ErrValidation       = errors.New("validation error")
	ErrPersistence      = errors.New("persistence failure")
	ErrUnauthorized     = errors.New("unauthorized")

	// ErrInvalidState is returned by Session transitions attempted outside their valid state.
	ErrInvalidState = errors.New("invalid session state")
)
