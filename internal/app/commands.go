package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/dispatcher/handlers/arrange"
	"github.com/dshills/canvasedit/internal/dispatcher/handlers/edit"
	"github.com/dshills/canvasedit/internal/input"
)

// commandActions maps short command names to action names.
var commandActions = map[string]string{
	"undo":   edit.ActionUndo,
	"redo":   edit.ActionRedo,
	"copy":   edit.ActionCopy,
	"paste":  edit.ActionPaste,
	"remove": edit.ActionRemove,
	"up":     arrange.ActionMoveUp,
	"down":   arrange.ActionMoveDown,
	"top":    arrange.ActionMoveToTop,
	"bottom": arrange.ActionMoveToBottom,
}

// Commands returns the short command names in sorted order.
func Commands() []string {
	out := make([]string, 0, len(commandActions))
	for name := range commandActions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseAction parses "name" or "name:count" into an action. Full action
// names such as "edit.paste" are accepted as well.
func ParseAction(spec string, source input.ActionSource) (input.Action, error) {
	name, countStr, hasCount := strings.Cut(strings.TrimSpace(spec), ":")
	action := input.Action{Name: name, Source: source, Count: 1}
	if full, ok := commandActions[name]; ok {
		action.Name = full
	} else if !strings.Contains(name, ".") {
		return input.Action{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if hasCount {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 {
			return input.Action{}, fmt.Errorf("%w: count %q", ErrUsage, countStr)
		}
		action.Count = n
	}
	return action, nil
}

// Run parses spec and dispatches the action.
func (app *Application) Run(ctx context.Context, spec string, source input.ActionSource) (handler.Result, error) {
	action, err := ParseAction(spec, source)
	if err != nil {
		return handler.Result{}, err
	}
	result := app.Execute(ctx, action)
	if result.IsError() {
		return result, result.Error
	}
	return result, nil
}

// ExecLine runs one line of the interactive loop and returns the text to
// show. "quit" returns ErrQuit.
func (app *Application) ExecLine(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return "", ErrQuit
	case "help":
		return "commands: " + strings.Join(Commands(), " ") + " " +
			strings.Join(app.viewCommands(), " ") + " quit", nil
	}

	if action, ok := app.viewAction(cmd, args, input.SourceInteractive); ok {
		result := app.Execute(ctx, action)
		if result.IsError() {
			return "", result.Error
		}
		return result.Message, nil
	}

	spec := cmd
	switch len(args) {
	case 0:
	case 1:
		spec = cmd + ":" + args[0]
	default:
		return "", fmt.Errorf("%w: %s [count]", ErrUsage, cmd)
	}
	result, err := app.Run(ctx, spec, input.SourceInteractive)
	if err != nil {
		return "", err
	}
	return FormatResult(result), nil
}

// FormatResult renders a result for display.
func FormatResult(r handler.Result) string {
	var b strings.Builder
	b.WriteString(r.Status.String())
	if r.Message != "" {
		b.WriteString(": ")
		b.WriteString(r.Message)
	}
	if n := r.GetDataInt(edit.DataPasted); n > 0 {
		fmt.Fprintf(&b, " (%d pasted)", n)
	}
	if r.Error != nil && r.Status != handler.StatusError {
		fmt.Fprintf(&b, " (%v)", r.Error)
	}
	return b.String()
}

// FormatState renders a state snapshot for display.
func FormatState(s State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "page=%q scroll=%d,%d\n", s.Page, s.Scroll.X, s.Scroll.Y)
	fmt.Fprintf(&b, "selected=[%s]\n", strings.Join(s.Selected, " "))
	fmt.Fprintf(&b, "elements=[%s]\n", strings.Join(s.Elements, " "))
	fmt.Fprintf(&b, "undo=%d redo=%d clipboard=%d", s.UndoCount, s.RedoCount, s.Clipboard)
	return b.String()
}
