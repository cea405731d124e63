package app

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/dshills/canvasedit/internal/config/watcher"
	"github.com/dshills/canvasedit/internal/document"
	"github.com/dshills/canvasedit/internal/logging"
	"github.com/dshills/canvasedit/internal/plugin/lua"
)

// ReloadConfig re-reads the config file and environment and applies the
// settings that can change while a session runs: the log level, the history
// bound, the paste anchor and the new-element script. An invalid file leaves
// the running configuration untouched.
func (app *Application) ReloadConfig(ctx context.Context) error {
	if app.isClosed() {
		return ErrClosed
	}
	if err := app.config.Reload(ctx); err != nil {
		return NewOperationError("reload", app.config.Path(), err)
	}

	app.logger.SetLevel(logging.ParseLevel(app.config.Logging().Level))
	app.session.History().SetMaxEntries(app.config.History().MaxEntries)
	clip := app.config.Clipboard()
	app.session.Clipboard().SetAnchor(document.Point{X: clip.AnchorX, Y: clip.AnchorY})
	app.logger.Info("config reloaded from %s", app.config.Path())

	if app.config.Hooks().NewElementScript != app.currentHookPath() {
		return app.ReloadHook()
	}
	return nil
}

// ReloadHook recompiles the configured new-element script. If the script
// fails to load the previous hook stays active.
func (app *Application) ReloadHook() error {
	if app.isClosed() {
		return ErrClosed
	}
	script := app.config.Hooks().NewElementScript
	var next *lua.ElementHook
	if script != "" {
		hook, err := app.loadHook(script)
		if err != nil {
			return NewOperationError("reload", script, err)
		}
		next = hook
	}

	app.hookMu.Lock()
	old := app.hook
	app.hook = next
	app.hookPath = script
	app.hookMu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	if script == "" {
		app.logger.Info("new-element hook removed")
	} else {
		app.logger.Info("new-element hook loaded from %s", script)
	}
	return nil
}

func (app *Application) currentHookPath() string {
	app.hookMu.Lock()
	defer app.hookMu.Unlock()
	return app.hookPath
}

// WatchFiles reloads the config file and the new-element script whenever
// they change on disk. Watching ends when ctx is done or stop is called;
// stop releases the watcher and waits for the reload loop to exit.
func (app *Application) WatchFiles(ctx context.Context, opts ...watcher.Option) (stop func() error, err error) {
	opts = append([]watcher.Option{watcher.WithDebounce(app.config.Watch().Debounce)}, opts...)
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	for _, path := range []string{app.config.Path(), app.currentHookPath()} {
		if path == "" {
			continue
		}
		if err := w.Watch(path); err != nil {
			_ = w.Close()
			return nil, NewOperationError("watch", path, err)
		}
	}

	log := app.logger.WithComponent("watch")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				app.onFileEvent(ctx, w, ev, log)
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("watch error: %v", err)
			}
		}
	}()

	return sync.OnceValue(func() error {
		err := w.Close()
		<-done
		return err
	}), nil
}

func (app *Application) onFileEvent(ctx context.Context, w *watcher.Watcher, ev watcher.Event, log *logging.Logger) {
	log.Debug("%s %s", ev.Op, ev.Path)

	var err error
	switch ev.Path {
	case absPath(app.config.Path()):
		err = app.ReloadConfig(ctx)
		if script := app.currentHookPath(); script != "" {
			if werr := w.Watch(script); werr != nil {
				log.Warn("watch %s: %v", script, werr)
			}
		}
	case absPath(app.currentHookPath()):
		err = app.ReloadHook()
	default:
		return
	}
	if err != nil {
		log.Warn("reload failed: %v", err)
	}
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
