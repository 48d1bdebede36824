// Package app provides editor and game sessions layered on the history engine.
package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrEmptyOverrides indicates an edit that would change nothing.
	ErrEmptyOverrides = errors.New("no overrides given")
)

// OperationError represents an error that occurred during a session operation.
type OperationError struct {
	Op      string // Operation name (e.g., "edit", "play")
	Session string // Session kind (e.g., "editor", "game")
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, session string, err error) *OperationError {
	return &OperationError{
		Op:      op,
		Session: session,
		Err:     err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Session != "" {
		msg = fmt.Sprintf("%s %s", e.Session, e.Op)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
