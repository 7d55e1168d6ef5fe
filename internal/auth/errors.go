package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid session token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)
