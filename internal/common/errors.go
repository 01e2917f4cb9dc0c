// Package common defines shared sentinel errors used across accountd
// components. Callers should use errors.Is to match these values; services
// wrap them with fmt.Errorf("%w: ...") to attach a human-readable message.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upload errors.
	ErrFileTooLarge = errors.New("file too large")
)
