// Package app wires the canvasedit components together and owns their
// lifecycle: configuration, logging, the document, the edit session and the
// action dispatcher.
package app

import (
	"context"
	"io"
	"sort"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/config"
	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/document"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/logging"
	"github.com/dshills/canvasedit/internal/plugin/lua"
	"github.com/dshills/canvasedit/internal/prompt"
	"github.com/dshills/canvasedit/internal/selection"
	"github.com/dshills/canvasedit/internal/session"
)

// Application is the central coordinator for one edited document.
type Application struct {
	mu sync.Mutex

	config     *config.Config
	logger     *logging.Logger
	doc        *document.Document
	selection  *selection.Store
	confirm    prompt.Confirmer
	session    *session.EditSession
	dispatcher *dispatcher.Dispatcher

	hookMu   sync.Mutex
	hook     *lua.ElementHook
	hookPath string

	closed bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML config file. When empty,
	// canvasedit.toml in the working directory is read if present.
	ConfigPath string

	// ConfigOptions are appended to the config options, mainly for tests.
	ConfigOptions []config.Option

	// Input is the HTML document to edit.
	Input io.Reader

	// LogLevel overrides logging.level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// AssumeYes accepts every confirmation.
	AssumeYes bool

	// Confirmer replaces the configured confirmation prompt.
	Confirmer prompt.Confirmer

	// PromptIn and PromptOut back the terminal prompt used when no answer
	// is assumed. Without PromptIn every confirmation is declined.
	PromptIn  io.Reader
	PromptOut io.Writer
}

// New creates an Application and bootstraps its components.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{}
	if err := app.bootstrap(ctx, opts); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Execute dispatches one action.
func (app *Application) Execute(ctx context.Context, action input.Action) handler.Result {
	if app.isClosed() {
		return handler.Error(ErrClosed)
	}
	return app.dispatcher.Dispatch(ctx, action)
}

// Select replaces the selection with the elements carrying the given ids.
// Nothing changes if any id is unknown.
func (app *Application) Select(ids ...string) error {
	elems := make([]*html.Node, 0, len(ids))
	for _, id := range ids {
		n := app.doc.FindByID(id)
		if n == nil {
			return NewOperationError("select", id, ErrUnknownElement)
		}
		elems = append(elems, n)
	}
	app.selection.Set(elems)
	app.logger.Debug("selected %d element(s)", len(elems))
	return nil
}

// SetPage changes the current page.
func (app *Application) SetPage(id string) {
	app.doc.SetCurrentPageID(id)
}

// SetScroll records the stage scroll offset.
func (app *Application) SetScroll(x, y int) {
	app.doc.SetScrollOffset(document.Point{X: x, Y: y})
}

// State is a snapshot of the editing state.
type State struct {
	Page       string
	Scroll     document.Point
	Selected   []string
	Elements   []string
	UndoCount  int
	RedoCount  int
	Clipboard  int
	Dispatches *dispatcher.MetricsSnapshot
}

// State returns a snapshot of the editing state.
func (app *Application) State() State {
	h := app.session.History()
	s := State{
		Page:      app.doc.CurrentPageID(),
		Scroll:    app.doc.ScrollOffset(),
		Selected:  ids(app.selection.Get()),
		Elements:  ids(app.doc.Elements()),
		UndoCount: h.UndoCount(),
		RedoCount: h.RedoCount(),
		Clipboard: app.session.Clipboard().Len(),
	}
	sort.Strings(s.Selected)
	if app.config.Dispatcher().Metrics {
		snap := app.dispatcher.Metrics().Snapshot()
		s.Dispatches = &snap
	}
	return s
}

func ids(elems []*html.Node) []string {
	out := make([]string, 0, len(elems))
	for _, n := range elems {
		out = append(out, document.ElementID(n))
	}
	return out
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config { return app.config }

// Logger returns the root logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Document returns the edited document.
func (app *Application) Document() *document.Document { return app.doc }

// Session returns the edit session.
func (app *Application) Session() *session.EditSession { return app.session }

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher { return app.dispatcher }

// Close releases the script hook. Later Execute calls fail with ErrClosed.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true

	app.hookMu.Lock()
	defer app.hookMu.Unlock()
	if app.hook != nil {
		err := app.hook.Close()
		app.hook = nil
		return err
	}
	return nil
}

func (app *Application) isClosed() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.closed
}
