package auth

import "errors"

var (
	// Credential errors
	ErrMissingCredentials = errors.New("missing basic credentials")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Configuration errors
	ErrUserRequired = errors.New("auth user is required")
	ErrInvalidHash  = errors.New("auth hash is not a bcrypt hash")
)
