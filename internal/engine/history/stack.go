package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 100

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")

	// ErrBusy indicates a document replacement from a previous undo or redo
	// is still pending.
	ErrBusy = errors.New("history: document replacement pending")
)

// Model is the document state the history captures and restores.
type Model interface {
	// SerializedDocument returns the full document content.
	SerializedDocument() string

	// SetSerializedDocument replaces the document content. The replacement
	// may complete asynchronously; onComplete is invoked exactly once.
	SetSerializedDocument(content string, onComplete func(error))

	// CurrentPageID returns the active page.
	CurrentPageID() string

	// SetCurrentPageID changes the active page.
	SetCurrentPageID(id string)
}

// Snapshot is an immutable capture of the document and its active page.
type Snapshot struct {
	Document string
	PageID   string
	Taken    time.Time
}

// History manages the undo and redo stacks of one editing session.
type History struct {
	mu sync.Mutex

	model Model

	undoStack []Snapshot
	redoStack []Snapshot

	// busy is set while an asynchronous replacement is in flight.
	busy bool

	maxEntries int
	now        func() time.Time
}

// New creates a history for model. maxEntries <= 0 uses DefaultMaxEntries.
func New(model Model, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		model:      model,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Checkpoint pushes the current state onto the undo stack and clears the
// redo stack. It must be called before every mutating edit.
func (h *History) Checkpoint() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.busy {
		return ErrBusy
	}

	h.undoStack = append(h.undoStack, h.captureLocked())
	h.redoStack = nil
	h.trimLocked()
	return nil
}

// Undo restores the most recent checkpoint. It blocks until the document
// replacement, if any, has completed or ctx is done.
func (h *History) Undo(ctx context.Context) error {
	return h.step(ctx, &h.undoStack, &h.redoStack, ErrNothingToUndo)
}

// Redo re-applies the most recently undone state.
func (h *History) Redo(ctx context.Context) error {
	return h.step(ctx, &h.redoStack, &h.undoStack, ErrNothingToRedo)
}

// step pops from one stack, pushes the current state onto the other and
// restores the popped snapshot.
func (h *History) step(ctx context.Context, from, to *[]Snapshot, empty error) error {
	h.mu.Lock()
	if h.busy {
		h.mu.Unlock()
		return ErrBusy
	}
	if len(*from) == 0 {
		h.mu.Unlock()
		return empty
	}

	current := h.captureLocked()
	prev := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, current)
	h.trimLocked()

	if prev.Document == current.Document {
		h.model.SetCurrentPageID(prev.PageID)
		h.mu.Unlock()
		return nil
	}

	h.busy = true
	h.mu.Unlock()

	done := make(chan error, 1)
	h.model.SetSerializedDocument(prev.Document, func(err error) {
		if err == nil {
			h.model.SetCurrentPageID(prev.PageID)
		}

		h.mu.Lock()
		h.busy = false
		if err != nil {
			// Put both stacks back the way they were.
			if n := len(*to); n > 0 {
				*to = (*to)[:n-1]
			}
			*from = append(*from, prev)
		}
		h.mu.Unlock()

		done <- err
	})

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("history: restore snapshot: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// captureLocked reads the current model state.
func (h *History) captureLocked() Snapshot {
	return Snapshot{
		Document: h.model.SerializedDocument(),
		PageID:   h.model.CurrentPageID(),
		Taken:    h.now(),
	}
}

// trimLocked evicts the oldest undo entries beyond maxEntries.
func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Busy reports whether a document replacement is pending.
func (h *History) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo snapshots available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo snapshots available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the snapshot the next undo would restore.
func (h *History) PeekUndo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the snapshot the next redo would restore.
func (h *History) PeekRedo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
