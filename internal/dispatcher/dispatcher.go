// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/logging"
)

// CancelReasonKey is the execution context data key a pre-dispatch hook sets
// to explain why it cancelled an action.
const CancelReasonKey = "dispatcher.cancelReason"

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	// Session state handed to handlers
	session   execctx.SessionInterface
	history   execctx.HistoryInterface
	clipboard execctx.ClipboardInterface
	selection execctx.SelectionInterface

	config  Config
	metrics *Metrics
	logger  *logging.Logger

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		config:   config,
		logger:   logging.Nop(),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetLogger sets the logger used for recovered panics.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l == nil {
		l = logging.Nop()
	}
	d.logger = l.WithComponent("dispatcher")
}

// SetSession sets the edit session handlers operate on.
func (d *Dispatcher) SetSession(s execctx.SessionInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = s
}

// SetHistory sets the history state source.
func (d *Dispatcher) SetHistory(h execctx.HistoryInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = h
}

// SetClipboard sets the clipboard state source.
func (d *Dispatcher) SetClipboard(c execctx.ClipboardInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clipboard = c
}

// SetSelection sets the selection state source.
func (d *Dispatcher) SetSelection(s execctx.SelectionInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = s
}

// Session returns the edit session.
func (d *Dispatcher) Session() execctx.SessionInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, action input.Action) handler.Result {
	startTime := time.Now()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	if d.config.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.DefaultTimeout)
		defer cancel()
	}

	ec := d.buildContext(ctx)
	if action.Count > 0 {
		ec.Count = action.Count
	}

	if !d.runPreHooks(&action, ec) {
		result := handler.Result{Status: handler.StatusCancelled, Error: ErrActionCancelled}
		if reason := ec.GetDataString(CancelReasonKey); reason != "" {
			result.Message = reason
		} else {
			result.Message = "cancelled by hook"
		}
		d.record(action.Name, startTime, result.Status)
		return result
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		result := handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
		d.record(action.Name, startTime, result.Status)
		return result
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ec)
	} else {
		result = h.Handle(action, ec)
	}

	d.runPostHooks(&action, ec, &result)
	d.record(action.Name, startTime, result.Status)
	return result
}

func (d *Dispatcher) record(name string, start time.Time, status handler.ResultStatus) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(start), status)
	}
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			d.mu.RLock()
			logger := d.logger
			d.mu.RUnlock()
			logger.Error("handler panic for %s: %v\n%s", action.Name, r, stack[:n])

			result = handler.Error(fmt.Errorf("%w for %s: %v", ErrPanic, action.Name, r))
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(ctx context.Context) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ec := execctx.New().WithContext(ctx)
	ec.Session = d.session
	ec.History = d.history
	ec.Clipboard = d.clipboard
	ec.Selection = d.selection
	return ec
}

// RegisterHandler registers a handler for an exact action name. It is
// consulted only when no namespace handler accepts the action.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.ActionFunc) {
	d.RegisterHandler(actionName, &handler.SimpleHandler{ActionName: actionName, Fn: fn})
}

// RegisterNamespace registers a namespace handler under its own namespace.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// CanDispatch reports whether any handler accepts actionName.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.CanRoute(actionName) || d.registry.Has(actionName)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks in registration order.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks in registration order.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// ExactActions returns the action names registered by exact name, sorted.
func (d *Dispatcher) ExactActions() []string {
	return d.registry.List()
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
