package identity

import "errors"

var (
	// ErrInvalidName indicates an empty display name.
	ErrInvalidName = errors.New("display name must not be empty")
	// ErrIdentityNotFound indicates the identity index is not assigned.
	ErrIdentityNotFound = errors.New("identity not found")
)
