package state

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the kind of every override rejection.
var ErrInvalidArgument = errors.New("invalid argument")

// OverrideError describes an override that could not be applied.
type OverrideError struct {
	// Key is the offending field name. Empty when the input as a whole
	// was malformed.
	Key string
	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *OverrideError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid overrides: %s", e.Reason)
	}
	return fmt.Sprintf("invalid override %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrInvalidArgument so callers can test the kind with errors.Is.
func (e *OverrideError) Unwrap() error {
	return ErrInvalidArgument
}

func unknownKey(key string) error {
	return &OverrideError{Key: key, Reason: "unknown field"}
}

func wrongType(key, want string, got any) error {
	return &OverrideError{Key: key, Reason: fmt.Sprintf("must be %s, got %T", want, got)}
}
