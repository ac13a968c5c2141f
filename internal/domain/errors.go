package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a caller contract violation (bad count, unknown subject, ...).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound signals a missing scenario session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrFixtureNotFound signals that no response is registered for a request.
	ErrFixtureNotFound = errors.New("fixture not found")
)

// InvalidArgumentError wraps ErrInvalidArgument with the offending argument name.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidArgument.Error(), e.Arg, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument creates an invalid-argument error for the named argument.
func NewInvalidArgument(arg, reason string) error {
	return &InvalidArgumentError{Arg: arg, Reason: reason}
}
