package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/canvasedit.toml", `
[history]
max_entries = 20

[clipboard]
anchor_x = 40
anchor_y = 60

[prompt]
assume = "yes"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/canvasedit.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	history, ok := config["history"].(map[string]any)
	if !ok {
		t.Fatal("expected history to be a map")
	}
	if history["max_entries"] != int64(20) {
		t.Errorf("max_entries = %v (%T), want 20", history["max_entries"], history["max_entries"])
	}
	clip := config["clipboard"].(map[string]any)
	if clip["anchor_x"] != int64(40) || clip["anchor_y"] != int64(60) {
		t.Errorf("clipboard = %v", clip)
	}
	if config["prompt"].(map[string]any)["assume"] != "yes" {
		t.Errorf("prompt = %v", config["prompt"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[history\nmax_entries = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want '/invalid.toml'", parseErr.Path)
	}
	if parseErr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&TOMLLoader{}).LoadFromReader(strings.NewReader(`background_class = "page"`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["background_class"] != "page" {
		t.Errorf("background_class = %v", config["background_class"])
	}

	config, err = (&TOMLLoader{}).LoadFromReader(strings.NewReader(""))
	if err != nil || config == nil {
		t.Errorf("empty input = %v, %v; want empty map", config, err)
	}
}
