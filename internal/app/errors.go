package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the interactive loop should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrClosed indicates the application has been closed.
	ErrClosed = errors.New("application closed")

	// ErrNoInput indicates no document source was given.
	ErrNoInput = errors.New("no input document")

	// ErrUnknownElement indicates an element id that is not in the document.
	ErrUnknownElement = errors.New("unknown element")

	// ErrUnknownCommand indicates a command name with no action.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates malformed command arguments.
	ErrUsage = errors.New("invalid arguments")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "select", "save")
	Target string // Target of the operation (e.g., element id, file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
