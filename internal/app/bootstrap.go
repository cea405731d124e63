package app

import (
	"context"

	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/config"
	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/handlers/arrange"
	"github.com/dshills/canvasedit/internal/dispatcher/handlers/edit"
	"github.com/dshills/canvasedit/internal/document"
	"github.com/dshills/canvasedit/internal/logging"
	"github.com/dshills/canvasedit/internal/plugin/lua"
	"github.com/dshills/canvasedit/internal/prompt"
	"github.com/dshills/canvasedit/internal/selection"
	"github.com/dshills/canvasedit/internal/session"
)

// DefaultConfigFile is read from the working directory when no config path
// is given.
const DefaultConfigFile = "canvasedit.toml"

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(ctx context.Context, opts Options) error {
	// 1. Config
	var configOpts []config.Option
	if opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithFile(opts.ConfigPath))
	} else {
		configOpts = append(configOpts, config.WithOptionalFile(DefaultConfigFile))
	}
	configOpts = append(configOpts, opts.ConfigOptions...)
	app.config = config.New(configOpts...)
	if err := app.config.Load(ctx); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := applyOverrides(app.config, opts); err != nil {
		return err
	}
	if err := app.config.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logger
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(app.config.Logging().Level)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	app.logger = logging.New(logCfg)
	if path := app.config.Path(); path != "" {
		app.logger.Debug("config loaded from %s", path)
	}

	// 3. Script hook and document
	if script := app.config.Hooks().NewElementScript; script != "" {
		hook, err := app.loadHook(script)
		if err != nil {
			return &InitError{Component: "hooks", Err: err}
		}
		app.hook = hook
		app.hookPath = script
	}
	docOpts := []document.Option{
		document.WithBackgroundClass(app.config.Document().BackgroundClass),
		document.WithElementHook(document.ElementHookFunc(app.runHook)),
	}
	if opts.Input == nil {
		return &InitError{Component: "document", Err: ErrNoInput}
	}
	doc, err := document.Parse(opts.Input, docOpts...)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.doc = doc

	// 4. Selection and prompt
	app.selection = selection.New()
	app.confirm = app.buildConfirmer(opts)

	// 5. Session
	clip := app.config.Clipboard()
	app.session = session.New(app.doc, app.selection, app.confirm,
		session.WithLogger(app.logger),
		session.WithMaxHistory(app.config.History().MaxEntries),
		session.WithPasteAnchor(document.Point{X: clip.AnchorX, Y: clip.AnchorY}),
	)

	// 6. Dispatcher
	app.dispatcher = app.buildDispatcher()
	return nil
}

// applyOverrides writes the command-line settings into the overrides layer.
func applyOverrides(cfg *config.Config, opts Options) error {
	if opts.LogLevel != "" {
		if err := cfg.Set("logging.level", opts.LogLevel); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if opts.AssumeYes {
		if err := cfg.Set("prompt.assume", config.AssumeYes); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	return nil
}

// loadHook compiles a new-element script with its print output routed to
// the log.
func (app *Application) loadHook(path string) (*lua.ElementHook, error) {
	hook, err := lua.NewElementHook(path)
	if err != nil {
		return nil, err
	}
	hook.State().Sandbox().SetOutput(func(msg string) {
		app.logger.WithComponent("lua").Info("%s", msg)
	})
	return hook, nil
}

// runHook runs the current new-element hook, if any.
func (app *Application) runHook(n *html.Node) error {
	app.hookMu.Lock()
	defer app.hookMu.Unlock()
	if app.hook == nil {
		return nil
	}
	return app.hook.OnNewElement(n)
}

func (app *Application) buildConfirmer(opts Options) prompt.Confirmer {
	if opts.Confirmer != nil {
		return opts.Confirmer
	}
	switch app.config.Prompt().Assume {
	case config.AssumeYes:
		return prompt.Static(true)
	case config.AssumeNo:
		return prompt.Static(false)
	}
	if opts.PromptIn == nil {
		return prompt.Static(false)
	}
	return prompt.NewTerminal(opts.PromptIn, opts.PromptOut)
}

func (app *Application) buildDispatcher() *dispatcher.Dispatcher {
	dc := app.config.Dispatcher()
	cfg := dispatcher.DefaultConfig().
		WithPanicRecovery(dc.RecoverPanics).
		WithMaxRepeatCount(dc.MaxRepeatCount)
	if dc.Metrics {
		cfg = cfg.WithMetrics()
	}

	d := dispatcher.New(cfg)
	d.SetLogger(app.logger)
	d.SetSession(app.session)
	d.SetHistory(app.session.History())
	d.SetClipboard(app.session.Clipboard())
	d.SetSelection(app.selection)

	d.RegisterNamespace(edit.NewHandler())
	d.RegisterNamespace(arrange.NewHandler())
	app.registerViewHandlers(d)

	d.RegisterPreHook(dispatcher.ValidationHook{})
	d.RegisterPreHook(dispatcher.NewCountLimitHook(dc.MaxRepeatCount))
	d.RegisterPreHook(dispatcher.NewBusyGuardHook(edit.Namespace, arrange.Namespace))
	logHook := dispatcher.NewLoggingHook(app.logger)
	d.RegisterPreHook(logHook)
	d.RegisterPostHook(logHook)
	return d
}
