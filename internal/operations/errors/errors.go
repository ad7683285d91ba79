package errors

import "errors"

var (
	ErrNotFound = errors.New("operation record not found")

	ErrInvalidID = errors.New("invalid operation record ID format")
)
