package auth

import "errors"

var (
	// ErrEmailTaken is returned when signing up with a registered email
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned for a missing, unknown or expired session
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrValidation wraps signup input errors
	ErrValidation = errors.New("validation failed")
	// ErrUserNotFound is returned by the repository when no user matches
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned by the repository when no session matches
	ErrSessionNotFound = errors.New("session not found")
)
