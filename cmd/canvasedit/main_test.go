package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<html><body><div class="background">` +
	`<div data-element-type="text" id="a" style="left: 10px; top: 20px; width: 100px; height: 50px;"><p>A</p></div>` +
	`<div data-element-type="image" id="b" style="left: 200px; top: 5px; width: 10px; height: 10px;"></div>` +
	`</div></body></html>`

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr strings.Builder
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunCommands(t *testing.T) {
	in := writePage(t)
	code, out, errOut := runCLI(t, "", "-in", in, "-select", "a", "copy", "paste")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if got := strings.Count(out, `data-element-type="text"`); got != 2 {
		t.Errorf("text elements = %d, want 2\n%s", got, out)
	}
	if !strings.Contains(errOut, "paste: ok (1 pasted)") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunArrange(t *testing.T) {
	in := writePage(t)
	code, out, errOut := runCLI(t, "", "-in", in, "-select", "a", "top")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.Index(out, `id="b"`) > strings.Index(out, `id="a"`) {
		t.Error("moving a to the top should leave b before it")
	}
}

func TestRunOutFile(t *testing.T) {
	in := writePage(t)
	out := filepath.Join(t.TempDir(), "out.html")
	code, stdout, errOut := runCLI(t, "", "-in", in, "-out", out, "-select", "b", "-yes", "remove")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty with -out", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `id="b"`) {
		t.Error("b should be removed")
	}
}

func TestRunRemoveDeclined(t *testing.T) {
	in := writePage(t)
	code, out, errOut := runCLI(t, "cancel\n", "-in", in, "-select", "b", "remove")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `id="b"`) {
		t.Error("declined removal deleted the element")
	}
	if !strings.Contains(errOut, "remove: cancelled") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunInteractive(t *testing.T) {
	in := writePage(t)
	script := strings.Join([]string{
		"select a",
		"copy",
		"scroll 0 50",
		"paste 2",
		"undo",
		"bogus",
		"select a",
		"remove",
		"delete",
		"show",
		"quit",
		"paste",
	}, "\n") + "\n"

	code, out, errOut := runCLI(t, script, "-in", in, "-i", "-dump")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"1 selected", "error: unknown command", "undo=", "UndoCount"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
	// Two pastes, one undone, then the original removed.
	if got := strings.Count(out, `data-element-type="text"`); got != 1 {
		t.Errorf("text elements = %d, want 1\n%s", got, out)
	}
}

func TestRunErrors(t *testing.T) {
	in := writePage(t)
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no input", nil, 1, "-in is required"},
		{"missing input", []string{"-in", filepath.Join(t.TempDir(), "none.html")}, 1, "no such file"},
		{"stdin twice", []string{"-in", "-", "-i"}, 1, "not allowed"},
		{"unknown element", []string{"-in", in, "-select", "zz"}, 1, "unknown element"},
		{"bad scroll", []string{"-in", in, "-scroll", "1"}, 1, "-scroll"},
		{"unknown command", []string{"-in", in, "jump"}, 1, "unknown command"},
		{"bad flag", []string{"-nope"}, 2, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
			if !strings.Contains(errOut, tt.msg) {
				t.Errorf("stderr = %q, want %q", errOut, tt.msg)
			}
		})
	}
}

func TestRunStdinInput(t *testing.T) {
	code, out, errOut := runCLI(t, page, "-in", "-", "-page", "home", "undo")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `id="a"`) {
		t.Errorf("stdout = %q", out)
	}
}

func TestVersionAndHelp(t *testing.T) {
	if code, out, _ := runCLI(t, "", "-version"); code != 0 || !strings.HasPrefix(out, "canvasedit ") {
		t.Errorf("-version = %d %q", code, out)
	}
	if code, _, errOut := runCLI(t, "", "-h"); code != 0 || !strings.Contains(errOut, "Commands:") {
		t.Errorf("-h = %d %q", code, errOut)
	}
}
