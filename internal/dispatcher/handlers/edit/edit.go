// Package edit provides handlers for the history, clipboard and removal
// commands.
//
// # History
//
//   - edit.undo: restore the previous checkpoint (repeats with Count)
//   - edit.redo: re-apply the last undone change (repeats with Count)
//
// # Clipboard
//
//   - edit.copy: copy the selected elements
//   - edit.paste: paste the clipboard and select the copies (repeats with
//     Count; the result carries the number of pasted elements)
//
// # Removal
//
//   - edit.remove: delete the selected elements after confirmation
package edit

import (
	"errors"

	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/session"
)

// Namespace is the action namespace of the handler.
const Namespace = "edit"

// Action names for edit operations.
const (
	ActionUndo   = "edit.undo"
	ActionRedo   = "edit.redo"
	ActionCopy   = "edit.copy"
	ActionPaste  = "edit.paste"
	ActionRemove = "edit.remove"
)

// Result data keys.
const (
	DataSteps  = "steps"
	DataPasted = "pasted"
)

// Handler handles the edit namespace.
type Handler struct{}

// NewHandler creates a new edit handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the edit namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionUndo, ActionRedo, ActionCopy, ActionPaste, ActionRemove:
		return true
	}
	return false
}

// HandleAction processes an edit action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionUndo:
		return h.undo(ctx)
	case ActionRedo:
		return h.redo(ctx)
	case ActionCopy:
		return h.copy(ctx)
	case ActionPaste:
		return h.paste(ctx)
	case ActionRemove:
		return h.remove(ctx)
	default:
		return handler.Errorf("unknown edit action: %s", action.Name)
	}
}

func (h *Handler) undo(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}
	return repeatHistory(ctx, ctx.History.CanUndo, func() error {
		return ctx.Session.Undo(ctx.Ctx())
	}, "nothing to undo")
}

func (h *Handler) redo(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}
	return repeatHistory(ctx, ctx.History.CanRedo, func() error {
		return ctx.Session.Redo(ctx.Ctx())
	}, "nothing to redo")
}

// repeatHistory runs step up to Count times, stopping early when the stack
// runs out.
func repeatHistory(ctx *execctx.ExecutionContext, available func() bool, step func() error, empty string) handler.Result {
	steps := 0
	for steps < ctx.GetCount() && available() {
		if err := step(); err != nil {
			return handler.FromError(err).WithData(DataSteps, steps)
		}
		steps++
	}
	if steps == 0 {
		return handler.NoOpWithMessage(empty)
	}
	return handler.Success().WithData(DataSteps, steps)
}

func (h *Handler) copy(ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.HasSelection() {
		return handler.NoOpWithMessage("nothing selected")
	}
	if err := ctx.Session.CopySelection(); err != nil {
		return handler.Error(err)
	}
	return handler.Success()
}

func (h *Handler) paste(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Clipboard == nil {
		return handler.Error(execctx.ErrMissingClipboard)
	}
	if ctx.Clipboard.Len() == 0 {
		return handler.NoOpWithMessage("clipboard is empty")
	}

	for i := 0; i < ctx.GetCount(); i++ {
		if err := ctx.Session.PasteSelection(); err != nil {
			return handler.Error(err)
		}
	}

	pasted := 0
	if ctx.Selection != nil {
		pasted = ctx.Selection.Len()
	}
	return handler.Success().WithData(DataPasted, pasted)
}

func (h *Handler) remove(ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.HasSelection() {
		return handler.NoOpWithMessage("nothing selected")
	}
	err := ctx.Session.RemoveSelectedElements(ctx.Ctx())
	if errors.Is(err, session.ErrDeclined) {
		return handler.CancelledWithMessage("removal declined")
	}
	return handler.FromError(err)
}
