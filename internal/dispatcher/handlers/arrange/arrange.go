// Package arrange provides handlers that change the stacking order of the
// selected elements.
package arrange

import (
	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
)

// Namespace is the action namespace of the handler.
const Namespace = "arrange"

// Action names for arrange operations.
const (
	ActionMoveUp       = "arrange.moveUp"       // one step toward the front
	ActionMoveDown     = "arrange.moveDown"     // one step toward the back
	ActionMoveToTop    = "arrange.moveToTop"    // frontmost
	ActionMoveToBottom = "arrange.moveToBottom" // backmost
)

// Handler handles the arrange namespace.
type Handler struct{}

// NewHandler creates a new arrange handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the arrange namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionMoveUp, ActionMoveDown, ActionMoveToTop, ActionMoveToBottom:
		return true
	}
	return false
}

// HandleAction processes an arrange action. Step moves repeat with Count.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if !ctx.HasSelection() {
		return handler.NoOpWithMessage("nothing selected")
	}

	s := ctx.Session
	switch action.Name {
	case ActionMoveUp:
		return repeat(ctx.GetCount(), s.MoveUp)
	case ActionMoveDown:
		return repeat(ctx.GetCount(), s.MoveDown)
	case ActionMoveToTop:
		return handler.FromError(s.MoveToTop())
	case ActionMoveToBottom:
		return handler.FromError(s.MoveToBottom())
	default:
		return handler.Errorf("unknown arrange action: %s", action.Name)
	}
}

func repeat(count int, fn func() error) handler.Result {
	for i := 0; i < count; i++ {
		if err := fn(); err != nil {
			return handler.Error(err)
		}
	}
	return handler.Success()
}
