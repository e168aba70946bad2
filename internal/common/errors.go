// Package common defines shared constants and sentinel errors used across
// authvault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Storage connectivity errors (pool exhausted, connect timeout,
	// transport failure). Distinct from statement-level failures so the
	// caller can tell "store unreachable" from "store rejected the query".
	ErrorUnavailable = errors.New("storage unavailable")

	// Service-level errors.
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
