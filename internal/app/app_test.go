package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/canvasedit/internal/config"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/document"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/prompt"
)

const page = `<html><body><div class="background" id="bg">` +
	`<div data-element-type="text" id="a" style="left: 10px; top: 20px; width: 100px; height: 50px;"><p>A</p></div>` +
	`<div data-element-type="image" id="b" style="left: 200px; top: 5px; width: 10px; height: 10px;"></div>` +
	`<div data-element-type="html" id="c" style="left: 0px; top: 0px; width: 5px; height: 5px;"></div>` +
	`</div></body></html>`

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Input == nil {
		opts.Input = strings.NewReader(page)
	}
	opts.ConfigOptions = append(opts.ConfigOptions, config.WithEnvPrefix(""))
	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func run(t *testing.T, app *Application, spec string) handler.Result {
	t.Helper()
	res, err := app.Run(context.Background(), spec, input.SourceAPI)
	if err != nil {
		t.Fatalf("Run(%q) error = %v", spec, err)
	}
	return res
}

func TestNewRequiresInput(t *testing.T) {
	_, err := New(context.Background(), Options{ConfigOptions: []config.Option{config.WithEnvPrefix("")}})
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "document" {
		t.Errorf("err = %#v, want InitError for document", err)
	}
}

func TestNewConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[history]\nmax_entries = -4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "none.toml"), config.ErrFileNotFound},
		{"invalid value", bad, config.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), Options{
				ConfigPath:    tt.path,
				Input:         strings.NewReader(page),
				ConfigOptions: []config.Option{config.WithEnvPrefix("")},
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyOverridesReportsSetErrors(t *testing.T) {
	cfg := config.New(config.WithEnvPrefix(""))
	if err := cfg.Set("logging", "flat"); err != nil {
		t.Fatal(err)
	}

	err := applyOverrides(cfg, Options{LogLevel: "debug"})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("err = %v, want config InitError", err)
	}
	if !errors.Is(err, config.ErrInvalidPath) {
		t.Errorf("err = %v, want ErrInvalidPath", err)
	}

	ok := config.New(config.WithEnvPrefix(""))
	if err := applyOverrides(ok, Options{LogLevel: "debug", AssumeYes: true}); err != nil {
		t.Fatalf("applyOverrides: %v", err)
	}
	if ok.Logging().Level != "debug" || ok.Prompt().Assume != config.AssumeYes {
		t.Errorf("overrides not applied: %+v %+v", ok.Logging(), ok.Prompt())
	}
}

func TestCopyPasteUndoRedo(t *testing.T) {
	app := newTestApp(t, Options{})

	if err := app.Select("a", "b"); err != nil {
		t.Fatal(err)
	}
	run(t, app, "copy")
	res := run(t, app, "paste")
	if res.Status != handler.StatusOK {
		t.Fatalf("paste status = %v", res.Status)
	}
	if got := FormatResult(res); got != "ok (2 pasted)" {
		t.Errorf("FormatResult = %q", got)
	}

	s := app.State()
	if len(s.Elements) != 5 || s.UndoCount != 1 || s.Clipboard != 2 || len(s.Selected) != 2 {
		t.Fatalf("state after paste = %+v", s)
	}

	run(t, app, "undo")
	if s := app.State(); len(s.Elements) != 3 || s.RedoCount != 1 {
		t.Fatalf("state after undo = %+v", s)
	}
	run(t, app, "redo")
	if s := app.State(); len(s.Elements) != 5 {
		t.Fatalf("state after redo = %+v", s)
	}

	if res := run(t, app, "redo"); res.Status != handler.StatusNoOp {
		t.Errorf("redo on empty stack = %v, want no-op", res.Status)
	}
}

func TestPasteCount(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Select("c"); err != nil {
		t.Fatal(err)
	}
	run(t, app, "copy")
	run(t, app, "paste:3")
	if s := app.State(); len(s.Elements) != 6 || s.UndoCount != 3 {
		t.Errorf("state = %+v, want 6 elements and 3 undo entries", s)
	}
}

func TestRemoveConfirmation(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		status handler.ResultStatus
		left   int
	}{
		{"declined without a prompt", Options{}, handler.StatusCancelled, 3},
		{"assume yes", Options{AssumeYes: true}, handler.StatusOK, 2},
		{"confirmer", Options{Confirmer: prompt.Static(true)}, handler.StatusOK, 2},
		{"terminal", Options{PromptIn: strings.NewReader("delete\n"), PromptOut: &strings.Builder{}}, handler.StatusOK, 2},
		{"terminal declined", Options{PromptIn: strings.NewReader("n\n"), PromptOut: &strings.Builder{}}, handler.StatusCancelled, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.opts)
			if err := app.Select("b"); err != nil {
				t.Fatal(err)
			}
			res := run(t, app, "remove")
			if res.Status != tt.status {
				t.Errorf("status = %v, want %v", res.Status, tt.status)
			}
			if got := len(app.State().Elements); got != tt.left {
				t.Errorf("elements = %d, want %d", got, tt.left)
			}
		})
	}
}

func TestArrange(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Select("a"); err != nil {
		t.Fatal(err)
	}
	run(t, app, "top")
	if got := strings.Join(app.State().Elements, ","); got != "b,c,a" {
		t.Errorf("after top = %s", got)
	}
	run(t, app, "bottom")
	if got := strings.Join(app.State().Elements, ","); got != "a,b,c" {
		t.Errorf("after bottom = %s", got)
	}
	run(t, app, "up:2")
	if got := strings.Join(app.State().Elements, ","); got != "b,c,a" {
		t.Errorf("after up:2 = %s", got)
	}
}

func TestSelectUnknown(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Select("a"); err != nil {
		t.Fatal(err)
	}
	err := app.Select("a", "nope")
	if !errors.Is(err, ErrUnknownElement) {
		t.Fatalf("err = %v, want ErrUnknownElement", err)
	}
	if got := app.State().Selected; len(got) != 1 || got[0] != "a" {
		t.Errorf("selection changed to %v", got)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		spec    string
		name    string
		count   int
		wantErr error
	}{
		{"undo", "edit.undo", 1, nil},
		{"paste:4", "edit.paste", 4, nil},
		{"bottom", "arrange.moveToBottom", 1, nil},
		{"edit.copy", "edit.copy", 1, nil},
		{"paste:0", "", 0, ErrUsage},
		{"paste:x", "", 0, ErrUsage},
		{"jump", "", 0, ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			a, err := ParseAction(tt.spec, input.SourceCommandLine)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if a.Name != tt.name || a.Count != tt.count || a.Source != input.SourceCommandLine {
				t.Errorf("action = %+v", a)
			}
		})
	}
}

func TestExecLine(t *testing.T) {
	app := newTestApp(t, Options{})
	ctx := context.Background()

	steps := []struct {
		line    string
		want    string
		wantErr error
	}{
		{"", "", nil},
		{"# comment", "", nil},
		{"select a b", "2 selected", nil},
		{"page home", `page "home"`, nil},
		{"scroll 0 50", "scroll 0,50", nil},
		{"copy", "ok", nil},
		{"paste", "ok (2 pasted)", nil},
		{"undo 1", "ok", nil},
		{"scroll x", "", ErrUsage},
		{"paste 1 2", "", ErrUsage},
		{"select zz", "", ErrUnknownElement},
		{"fly", "", ErrUnknownCommand},
		{"quit", "", ErrQuit},
	}
	for _, st := range steps {
		got, err := app.ExecLine(ctx, st.line)
		if st.wantErr != nil {
			if !errors.Is(err, st.wantErr) {
				t.Errorf("%q: err = %v, want %v", st.line, err, st.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: err = %v", st.line, err)
			continue
		}
		if !strings.HasPrefix(got, st.want) {
			t.Errorf("%q = %q, want prefix %q", st.line, got, st.want)
		}
	}

	s := app.State()
	if s.Page != "home" || s.Scroll != (document.Point{X: 0, Y: 50}) {
		t.Errorf("state = %+v", s)
	}
	show, err := app.ExecLine(ctx, "show")
	if err != nil || !strings.Contains(show, `page="home"`) || !strings.Contains(show, "redo=1") {
		t.Errorf("show = %q, %v", show, err)
	}
}

func TestNewElementScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hook.lua")
	if err := os.WriteFile(script, []byte(`function on_new_element(el) el.add_class("pasted") end`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "canvasedit.yaml")
	if err := os.WriteFile(cfgPath, []byte("hooks:\n  new_element_script: "+script+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{ConfigPath: cfgPath})
	if err := app.Select("a"); err != nil {
		t.Fatal(err)
	}
	run(t, app, "copy")
	run(t, app, "paste")

	pasted := app.Session().Selection().Get()
	if len(pasted) != 1 || !document.HasClass(pasted[0], "pasted") {
		t.Fatalf("hook did not run on %v", pasted)
	}
}

func TestMetricsInState(t *testing.T) {
	app := newTestApp(t, Options{})
	if app.State().Dispatches != nil {
		t.Error("metrics reported while disabled")
	}

	app = newTestApp(t, Options{ConfigOptions: []config.Option{config.WithEnvLoader(metricsEnv{})}})
	run(t, app, "undo")
	s := app.State()
	if s.Dispatches == nil || s.Dispatches.TotalDispatches != 1 {
		t.Errorf("dispatches = %+v", s.Dispatches)
	}
}

func TestViewCommandsUseExactNameHandlers(t *testing.T) {
	app := newTestApp(t, Options{ConfigOptions: []config.Option{config.WithEnvLoader(metricsEnv{})}})
	ctx := context.Background()

	want := []string{ActionPage, ActionScroll, ActionSelect, ActionShow}
	if got := app.Dispatcher().ExactActions(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("ExactActions() = %v, want %v", got, want)
	}

	if _, err := app.ExecLine(ctx, "select a"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.ExecLine(ctx, "select zz"); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("select zz: err = %v", err)
	}
	stats := app.Dispatcher().Metrics().ActionStats(ActionSelect)
	if stats == nil || stats.DispatchCount != 2 || stats.ErrorCount != 1 {
		t.Errorf("ActionStats(%s) = %+v", ActionSelect, stats)
	}

	help, err := app.ExecLine(ctx, "help")
	if err != nil || !strings.Contains(help, "page scroll select show quit") {
		t.Errorf("help = %q, %v", help, err)
	}
}

type metricsEnv struct{}

func (metricsEnv) Load() (map[string]any, error) {
	return map[string]any{"dispatcher": map[string]any{"metrics": true}}, nil
}

func TestSave(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Select("a"); err != nil {
		t.Fatal(err)
	}
	run(t, app, "top")

	var b strings.Builder
	if err := app.Save(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `id="c"`) {
		t.Fatalf("Save() = %q", b.String())
	}

	path := filepath.Join(t.TempDir(), "out.html")
	if err := app.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != b.String() {
		t.Error("SaveFile and Save disagree")
	}
	if err := app.SaveFile(filepath.Join(t.TempDir(), "missing", "out.html")); err == nil {
		t.Error("SaveFile into a missing directory should fail")
	}
}

func TestClosed(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := app.Run(context.Background(), "undo", input.SourceAPI); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close = %v, want ErrClosed", err)
	}
}
