package errors

import "errors"

var (
	ErrNotFound = errors.New("financial record not found")

	ErrInvalidID = errors.New("invalid financial record ID format")
)
