// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and are mapped to HTTP codes by the handlers.
var (
	// ErrUserAlreadyExists indicates that a user with the given (normalized) email already exists.
	ErrUserAlreadyExists = errors.New("user with this email already exists")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccessDenied indicates that the caller asked for another user's profile.
	ErrAccessDenied = errors.New("access denied")
)
