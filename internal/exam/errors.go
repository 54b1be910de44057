package exam

import "errors"

var (
	// ErrUnauthorized means the caller identity could not be resolved.
	// Nothing is written when submission fails with it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTestNotFound means the referenced test does not exist (e.g. it was
	// deleted while a session was in progress).
	ErrTestNotFound = errors.New("test not found")

	ErrAttemptNotFound = errors.New("attempt not found")
)
