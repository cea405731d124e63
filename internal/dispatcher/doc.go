// Package dispatcher routes edit actions to handlers and coordinates
// execution.
//
// Actions are routed by namespace first: "edit.paste" goes to the handler
// registered for the "edit" namespace, provided it accepts that action.
// Actions no namespace accepts fall back to the exact-name registry.
//
// # Handler Execution
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built carrying the edit session, its history,
//     clipboard and selection state, and the caller's context.Context
//  2. Pre-dispatch hooks run; any of them may cancel the action
//  3. The handler is found and executed (with optional panic recovery)
//  4. Post-dispatch hooks run
//  5. Metrics are recorded (if enabled)
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.SetSession(sess)
//	d.SetHistory(sess.History())
//	d.RegisterNamespace(edit.NewHandler())
//	d.RegisterPreHook(dispatcher.NewBusyGuardHook("edit", "arrange"))
//
//	result := d.Dispatch(ctx, input.Action{Name: "edit.undo"})
//
// # Hooks
//
// Pre-dispatch hooks can modify or cancel actions; a cancelling hook may
// leave a reason under CancelReasonKey, which becomes the result message:
//
//	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(a *input.Action, ctx *execctx.ExecutionContext) bool {
//	    return true
//	}))
//
// The package ships a logging hook, a busy guard that rejects edits while an
// undo or redo is still replacing the document, a repeat count limit and an
// action name validator.
package dispatcher
