package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoSession         = errors.New("no research session")
	ErrEmptySnapshot     = errors.New("empty snapshot")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrInvalidResponse   = errors.New("invalid backend response")
)
