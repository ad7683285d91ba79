package errors

import "errors"

var (
	ErrNotFound = errors.New("refresh token not found")

	ErrDuplicateToken = errors.New("refresh token already exists")
)
