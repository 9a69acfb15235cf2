package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Access errors returned by the backend.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
