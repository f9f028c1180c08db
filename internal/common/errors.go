// Package common defines shared constants and sentinel errors used across
// client and server layers of qrregistry. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Record service taxonomy.
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrDuplicateNationalID = errors.New("duplicate national id")
	ErrStorage             = errors.New("storage error")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Repository-level constraint errors.
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
