package script

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when running a script on a closed Runner.
var ErrClosed = errors.New("script runner is closed")

// Error reports a script that failed to load or run.
type Error struct {
	Name string // Chunk name, usually the script path
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
