package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingSession indicates the edit session is required but not set.
	ErrMissingSession = errors.New("execution context: session is required")

	// ErrMissingHistory indicates history is required but not set.
	ErrMissingHistory = errors.New("execution context: history is required")

	// ErrMissingClipboard indicates the clipboard is required but not set.
	ErrMissingClipboard = errors.New("execution context: clipboard is required")
)
