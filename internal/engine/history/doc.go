// Package history provides snapshot-based undo/redo for the document editor.
//
// Every mutating edit command takes a checkpoint before it touches the tree.
// A checkpoint is a Snapshot of the whole serialized document plus the
// active page id, pushed onto the undo stack. Taking a checkpoint clears the
// redo stack.
//
// # Undo and Redo
//
// Undo captures the current state onto the redo stack and restores the most
// recent undo snapshot; Redo is the mirror image. When the restored snapshot
// carries the same document as the live one, only the page id is restored.
// Otherwise the document content is replaced first, which the model performs
// asynchronously, and the page id is restored once the replacement has
// completed:
//
//	h := history.New(doc, 100)
//
//	h.Checkpoint()
//	// ... mutate the document ...
//
//	if err := h.Undo(ctx); errors.Is(err, history.ErrNothingToUndo) {
//	    // nothing happened
//	}
//
// # Overlapping commands
//
// While a replacement is pending, Undo, Redo and Checkpoint fail with
// ErrBusy instead of interleaving with it.
//
// # Bounded growth
//
// The undo stack keeps at most MaxEntries snapshots; the oldest are evicted
// first.
package history
