// Package execctx provides the execution context for action handlers.
package execctx

import (
	"context"
)

// SessionInterface abstracts the edit commands of an open document.
type SessionInterface interface {
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error

	CopySelection() error
	PasteSelection() error
	RemoveSelectedElements(ctx context.Context) error

	MoveUp() error
	MoveDown() error
	MoveToTop() error
	MoveToBottom() error
}

// HistoryInterface exposes undo state to handlers.
type HistoryInterface interface {
	CanUndo() bool
	CanRedo() bool
	UndoCount() int
	RedoCount() int

	// Busy reports whether a document replacement is still pending.
	Busy() bool
}

// ClipboardInterface exposes clipboard state to handlers.
type ClipboardInterface interface {
	Len() int
}

// SelectionInterface exposes selection state to handlers.
type SelectionInterface interface {
	Len() int
}

// ExecutionContext provides context for action execution.
// It contains references to the session state handlers need.
type ExecutionContext struct {
	// Context bounds blocking commands such as undo and removal.
	Context context.Context

	// Session runs the edit commands.
	Session SessionInterface

	// History provides undo/redo state.
	History HistoryInterface

	// Clipboard provides clipboard state.
	Clipboard ClipboardInterface

	// Selection provides selection state.
	Selection SelectionInterface

	// Count is the repeat count (1 if not specified).
	Count int

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Context: context.Background(),
		Count:   1,
		Data:    make(map[string]any),
	}
}

// WithContext returns the context with the Go context set.
func (ctx *ExecutionContext) WithContext(c context.Context) *ExecutionContext {
	if c != nil {
		ctx.Context = c
	}
	return ctx
}

// WithSession returns the context with the session set.
func (ctx *ExecutionContext) WithSession(s SessionInterface) *ExecutionContext {
	ctx.Session = s
	return ctx
}

// WithHistory returns the context with history set.
func (ctx *ExecutionContext) WithHistory(h HistoryInterface) *ExecutionContext {
	ctx.History = h
	return ctx
}

// WithClipboard returns the context with the clipboard set.
func (ctx *ExecutionContext) WithClipboard(c ClipboardInterface) *ExecutionContext {
	ctx.Clipboard = c
	return ctx
}

// WithSelection returns the context with the selection set.
func (ctx *ExecutionContext) WithSelection(s SelectionInterface) *ExecutionContext {
	ctx.Selection = s
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// Clone returns a shallow copy with its own Data map.
func (ctx *ExecutionContext) Clone() *ExecutionContext {
	c := *ctx
	c.Data = make(map[string]any, len(ctx.Data))
	for k, v := range ctx.Data {
		c.Data[k] = v
	}
	return &c
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Ctx returns the Go context, never nil.
func (ctx *ExecutionContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// HasSelection returns true if at least one element is selected.
func (ctx *ExecutionContext) HasSelection() bool {
	return ctx.Selection != nil && ctx.Selection.Len() > 0
}

// HistoryBusy reports whether an undo or redo is still replacing the
// document.
func (ctx *ExecutionContext) HistoryBusy() bool {
	return ctx.History != nil && ctx.History.Busy()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetDataInt retrieves an int value from context data.
func (ctx *ExecutionContext) GetDataInt(key string) int {
	if v, ok := ctx.GetData(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// Validate checks that the context has a session.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Session == nil {
		return ErrMissingSession
	}
	return nil
}

// ValidateForHistory checks that the context is valid for undo and redo.
func (ctx *ExecutionContext) ValidateForHistory() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.History == nil {
		return ErrMissingHistory
	}
	return nil
}
