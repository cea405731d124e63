package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/canvasedit/internal/config/loader"
)

type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return map[string]any(e), nil }

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

type failingEnv struct{}

func (failingEnv) Load() (map[string]any, error) { return nil, errors.New("env broken") }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c := New(WithEnvPrefix(""))

	if got := c.History().MaxEntries; got != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want %d", got, DefaultMaxEntries)
	}
	if got := c.Clipboard(); got.AnchorX != 100 || got.AnchorY != 100 {
		t.Errorf("Clipboard = %+v", got)
	}
	if got := c.Document().BackgroundClass; got != "background" {
		t.Errorf("BackgroundClass = %q", got)
	}
	if got := c.Prompt().Assume; got != AssumeNone {
		t.Errorf("Assume = %q", got)
	}
	if got := c.Dispatcher(); got.Metrics || !got.RecoverPanics || got.MaxRepeatCount != DefaultMaxRepeatCount {
		t.Errorf("Dispatcher = %+v", got)
	}
	if got := c.Logging().Level; got != "info" {
		t.Errorf("Level = %q", got)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "canvasedit.toml", `
[history]
max_entries = 10

[clipboard]
anchor_x = 0

[hooks]
new_element_script = "hook.lua"
`)
	c := New(WithFile(path), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := c.History().MaxEntries; got != 10 {
		t.Errorf("MaxEntries = %d, want 10", got)
	}
	if got := c.Clipboard(); got.AnchorX != 0 || got.AnchorY != DefaultAnchorY {
		t.Errorf("Clipboard = %+v, want {0 100}", got)
	}
	if got := c.Hooks().NewElementScript; got != "hook.lua" {
		t.Errorf("NewElementScript = %q", got)
	}
	if c.Path() != path {
		t.Errorf("Path() = %q", c.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "canvasedit.yml", "document:\n  background_class: page\nprompt:\n  assume: \"no\"\n")
	c := New(WithFile(path), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Document().BackgroundClass; got != "page" {
		t.Errorf("BackgroundClass = %q", got)
	}
	if got := c.Prompt().Assume; got != AssumeNo {
		t.Errorf("Assume = %q", got)
	}
}

func TestLayerPrecedence(t *testing.T) {
	memfs := memFS{
		"/c.toml": "[history]\nmax_entries = 10\n[logging]\nlevel = \"warn\"\n",
	}
	env := staticEnv{"history": map[string]any{"max_entries": int64(20)}}

	c := New(WithFileSystem(memfs), WithFile("/c.toml"), WithEnvLoader(env))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.History().MaxEntries; got != 20 {
		t.Errorf("env should override file: MaxEntries = %d", got)
	}
	if got := c.Logging().Level; got != "warn" {
		t.Errorf("file should override defaults: Level = %q", got)
	}

	if err := c.Set("history.max_entries", 30); err != nil {
		t.Fatal(err)
	}
	if got := c.History().MaxEntries; got != 30 {
		t.Errorf("override should win: MaxEntries = %d", got)
	}

	// Reloading keeps the overrides.
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.History().MaxEntries; got != 30 {
		t.Errorf("override lost on reload: MaxEntries = %d", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"missing required", []Option{WithFile(filepath.Join(dir, "none.toml"))}, ErrFileNotFound},
		{"unsupported", []Option{WithFile(filepath.Join(dir, "c.json"))}, loader.ErrUnsupportedFormat},
		{"env", []Option{WithEnvLoader(failingEnv{})}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(append(tt.opts, WithEnvPrefix(""))...).Load(context.Background())
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	c := New(WithOptionalFile(filepath.Join(dir, "none.toml")), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Errorf("optional missing file: %v", err)
	}

	bad := writeFile(t, "bad.toml", "[history\n")
	var pe *loader.ParseError
	if err := New(WithFile(bad), WithEnvPrefix("")).Load(context.Background()); !errors.As(err, &pe) {
		t.Errorf("err = %v, want ParseError", err)
	}
}

func TestTypedGetters(t *testing.T) {
	c := New(WithEnvPrefix(""))
	_ = c.Set("x.s", "v")
	_ = c.Set("x.f", 2.0)
	_ = c.Set("x.frac", 2.5)

	if _, err := c.GetString("x.none"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, err := c.GetInt("x.s"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("string as int: %v", err)
	}
	if n, err := c.GetInt("x.f"); err != nil || n != 2 {
		t.Errorf("GetInt(2.0) = %d, %v", n, err)
	}
	if _, err := c.GetInt("x.frac"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("fractional as int: %v", err)
	}
	if _, err := c.GetBool("x.s"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("string as bool: %v", err)
	}
	if err := c.Set("x.s.deeper", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("set through a leaf: %v", err)
	}
	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("empty path: %v", err)
	}
}

func TestMergedIsCopy(t *testing.T) {
	c := New(WithEnvPrefix(""))
	m := c.Merged()
	m["history"].(map[string]any)["max_entries"] = 1
	if c.History().MaxEntries != DefaultMaxEntries {
		t.Error("Merged() exposes internal state")
	}
}

func TestReload(t *testing.T) {
	fsys := memFS{"canvasedit.toml": "[history]\nmax_entries = 10\n"}
	c := New(WithFile("canvasedit.toml"), WithFileSystem(fsys), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("logging.level", "debug"); err != nil {
		t.Fatal(err)
	}

	fsys["canvasedit.toml"] = "[history]\nmax_entries = 20\n"
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := c.History().MaxEntries; got != 20 {
		t.Errorf("MaxEntries = %d, want 20", got)
	}
	if got := c.Logging().Level; got != "debug" {
		t.Errorf("override lost on reload: level = %q", got)
	}

	fsys["canvasedit.toml"] = "[history]\nmax_entries = -1\n"
	if err := c.Reload(context.Background()); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Reload invalid: err = %v, want ErrValidationFailed", err)
	}
	if got := c.History().MaxEntries; got != 20 {
		t.Errorf("invalid reload must keep the old value, got %d", got)
	}

	delete(fsys, "canvasedit.toml")
	if err := c.Reload(context.Background()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Reload missing: err = %v, want ErrFileNotFound", err)
	}
}
