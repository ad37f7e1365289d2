package auth

import "errors"

var (
	// ErrInvalidCredentials indicates the presented handle/email and secret
	// do not match a stored principal.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing, malformed, expired, or
	// rotated-out token. Callers must not proceed as any principal.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionNotFound indicates no session record exists for the principal.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPrincipalNotFound indicates the directory has no principal for the
	// presented identifier. Directory implementations must report absence
	// with an error matching this sentinel.
	ErrPrincipalNotFound = errors.New("principal not found")
)
