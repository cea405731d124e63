package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
)

// View actions change what the session looks at, not the document. They
// are registered by exact name; no namespace handler claims "view".
const (
	ActionSelect = "view.select"
	ActionPage   = "view.page"
	ActionScroll = "view.scroll"
	ActionShow   = "view.show"
)

// ArgWords is the action argument holding the command words after the name.
const ArgWords = "words"

const viewPrefix = "view."

func (app *Application) registerViewHandlers(d *dispatcher.Dispatcher) {
	d.RegisterHandlerFunc(ActionSelect, app.handleSelect)
	d.RegisterHandlerFunc(ActionPage, app.handlePage)
	d.RegisterHandlerFunc(ActionScroll, app.handleScroll)
	d.RegisterHandlerFunc(ActionShow, app.handleShow)
}

// viewAction builds the action for a short view command such as "select",
// reporting false when name is not one.
func (app *Application) viewAction(name string, args []string, source input.ActionSource) (input.Action, bool) {
	full := viewPrefix + name
	if !app.dispatcher.CanDispatch(full) {
		return input.Action{}, false
	}
	return input.Action{
		Name:   full,
		Source: source,
		Count:  1,
		Args:   input.ActionArgs{Extra: map[string]any{ArgWords: args}},
	}, true
}

// viewCommands returns the short names of the registered view actions.
func (app *Application) viewCommands() []string {
	var out []string
	for _, name := range app.dispatcher.ExactActions() {
		if short, ok := strings.CutPrefix(name, viewPrefix); ok {
			out = append(out, short)
		}
	}
	return out
}

func words(action input.Action) []string {
	v, _ := action.Args.Get(ArgWords)
	w, _ := v.([]string)
	return w
}

func (app *Application) handleSelect(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	ids := words(action)
	if err := app.Select(ids...); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage(fmt.Sprintf("%d selected", len(ids)))
}

func (app *Application) handlePage(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	args := words(action)
	if len(args) > 1 {
		return handler.Error(fmt.Errorf("%w: page [id]", ErrUsage))
	}
	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	app.SetPage(id)
	return handler.SuccessWithMessage("page " + strconv.Quote(id))
}

func (app *Application) handleScroll(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	args := words(action)
	if len(args) != 2 {
		return handler.Error(fmt.Errorf("%w: scroll <x> <y>", ErrUsage))
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if errX != nil || errY != nil {
		return handler.Error(fmt.Errorf("%w: scroll <x> <y>", ErrUsage))
	}
	app.SetScroll(x, y)
	return handler.SuccessWithMessage(fmt.Sprintf("scroll %d,%d", x, y))
}

func (app *Application) handleShow(input.Action, *execctx.ExecutionContext) handler.Result {
	return handler.SuccessWithMessage(FormatState(app.State()))
}
