package document

import "errors"

// Document errors.
var (
	// ErrNoContainer indicates an element was added without a container.
	ErrNoContainer = errors.New("document: no container")

	// ErrAttached indicates an element that must be detached still has a parent.
	ErrAttached = errors.New("document: element is already attached")

	// ErrDetached indicates an element that must be attached has no parent.
	ErrDetached = errors.New("document: element is not attached")

	// ErrStageElement indicates an operation is not allowed on the stage element.
	ErrStageElement = errors.New("document: operation not allowed on the stage element")

	// ErrNotElement indicates a node is not an element node.
	ErrNotElement = errors.New("document: node is not an element")
)
