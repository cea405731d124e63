package dispatcher_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
	"github.com/dshills/canvasedit/internal/logging"
)

func TestBusyGuardHook(t *testing.T) {
	h := &fakeHistory{busy: true}
	guard := dispatcher.NewBusyGuardHook("edit", "arrange")

	tests := []struct {
		name   string
		action string
		busy   bool
		want   bool
	}{
		{"idle edit", "edit.undo", false, true},
		{"busy edit", "edit.undo", true, false},
		{"busy arrange", "arrange.moveUp", true, false},
		{"busy other namespace", "view.show", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.busy = tt.busy
			ctx := execctx.New().WithHistory(h)
			action := input.Action{Name: tt.action}

			if got := guard.PreDispatch(&action, ctx); got != tt.want {
				t.Errorf("PreDispatch() = %v, want %v", got, tt.want)
			}
			if !tt.want && ctx.GetDataString(dispatcher.CancelReasonKey) == "" {
				t.Error("guard should leave a cancel reason")
			}
		})
	}
}

func TestBusyGuardInDispatch(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.SetHistory(&fakeHistory{busy: true})
	d.RegisterPreHook(dispatcher.NewBusyGuardHook("edit"))
	d.RegisterHandlerFunc("edit.undo", ok)

	r := dispatchName(d, "edit.undo")
	if r.Status != handler.StatusCancelled || r.Message != "document replacement pending" {
		t.Errorf("expected busy cancellation, got %+v", r)
	}
}

func TestCountLimitHook(t *testing.T) {
	hook := dispatcher.NewCountLimitHook(5)
	ctx := execctx.New().WithCount(50)
	action := input.Action{Name: "edit.undo"}

	if !hook.PreDispatch(&action, ctx) {
		t.Fatal("count limit should never cancel")
	}
	if ctx.Count != 5 {
		t.Errorf("Count = %d, want 5", ctx.Count)
	}
}

func TestValidationHook(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"edit.copy", true},
		{"  edit.copy ", true},
		{"copy", false},
		{"   ", false},
	}
	for _, tt := range tests {
		action := input.Action{Name: tt.name}
		ctx := execctx.New()
		if got := (dispatcher.ValidationHook{}).PreDispatch(&action, ctx); got != tt.want {
			t.Errorf("PreDispatch(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if tt.want && action.Name != strings.TrimSpace(tt.name) {
			t.Errorf("name not trimmed: %q", action.Name)
		}
	}
}

func TestLoggingHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	hook := dispatcher.NewLoggingHook(logger)

	action := input.Action{Name: "edit.paste"}
	ctx := execctx.New()
	hook.PreDispatch(&action, ctx)
	result := handler.Error(errors.New("no container"))
	hook.PostDispatch(&action, ctx, &result)

	out := buf.String()
	if !strings.Contains(out, "dispatching edit.paste") {
		t.Errorf("missing pre-dispatch line:\n%s", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "no container") {
		t.Errorf("missing failure line:\n%s", out)
	}
}
