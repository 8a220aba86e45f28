package domain

import "errors"

var (
	// ErrStaleSession indicates an action arrived for a user with no active search session
	ErrStaleSession = errors.New("no active search session")

	// ErrInvalidTransition indicates a navigation action is not legal in the current state
	ErrInvalidTransition = errors.New("navigation action not allowed in current state")
)
