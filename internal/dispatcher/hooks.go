package dispatcher

import (
	"strings"

	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/logging"
)

// PreDispatchHook is called before an action is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch may modify the action or context.
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch at debug level and failures at warn.
type LoggingHook struct {
	log *logging.Logger
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(l *logging.Logger) *LoggingHook {
	if l == nil {
		l = logging.Nop()
	}
	return &LoggingHook{log: l.WithComponent("dispatch")}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.log.Debug("dispatching %s (count=%d, source=%s)", action.Name, ctx.GetCount(), action.Source)
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Error != nil && result.Status == handler.StatusError {
		h.log.Warn("%s failed: %v", action.Name, result.Error)
		return
	}
	h.log.Debug("%s -> %s", action.Name, result.Status)
}

// BusyGuardHook cancels edit actions while an undo or redo is still
// replacing the document.
type BusyGuardHook struct {
	// Namespaces lists the guarded namespaces.
	Namespaces []string
}

// NewBusyGuardHook guards the given namespaces.
func NewBusyGuardHook(namespaces ...string) *BusyGuardHook {
	return &BusyGuardHook{Namespaces: namespaces}
}

// PreDispatch rejects guarded actions while the history is busy.
func (h *BusyGuardHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if !ctx.HistoryBusy() {
		return true
	}
	ns := action.Namespace()
	for _, guarded := range h.Namespaces {
		if ns == guarded {
			ctx.SetData(CancelReasonKey, "document replacement pending")
			return false
		}
	}
	return true
}

// CountLimitHook enforces a maximum repeat count.
type CountLimitHook struct {
	MaxCount int
}

// NewCountLimitHook creates a new count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{MaxCount: maxCount}
}

// PreDispatch limits the repeat count.
func (h *CountLimitHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.MaxCount > 0 && ctx.Count > h.MaxCount {
		ctx.Count = h.MaxCount
	}
	return true
}

// ValidationHook rejects action names that are not namespaced.
type ValidationHook struct{}

// PreDispatch implements PreDispatchHook.
func (ValidationHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	name := strings.TrimSpace(action.Name)
	if name == "" || !strings.Contains(name, ".") {
		ctx.SetData(CancelReasonKey, "invalid action name "+`"`+action.Name+`"`)
		return false
	}
	action.Name = name
	return true
}
