package dispatcher_test

import (
	"strings"
	"testing"

	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
)

func named(msg string, prio int) *handler.SimpleHandler {
	return &handler.SimpleHandler{
		ActionName: "test.action",
		Prio:       prio,
		Fn: func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
			return handler.SuccessWithMessage(msg)
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := dispatcher.NewRegistry()
	registry.Register("test.action", named("a", 0))

	if registry.Get("test.action") == nil {
		t.Fatal("expected non-nil handler")
	}
	if registry.Get("missing") != nil {
		t.Error("expected nil for missing action")
	}
	if !registry.Has("test.action") || registry.Has("missing") {
		t.Error("Has should follow registrations")
	}
}

func TestRegistryPriority(t *testing.T) {
	registry := dispatcher.NewRegistry()
	registry.Register("test.action", named("low", 1))
	registry.Register("test.action", named("high", 10))
	registry.Register("test.action", named("also-high", 10))

	r := registry.Get("test.action").Handle(input.Action{Name: "test.action"}, execctx.New())
	if r.Message != "high" {
		t.Errorf("Get returned %q, want the first highest priority handler", r.Message)
	}
}

func TestRegistryList(t *testing.T) {
	registry := dispatcher.NewRegistry()
	for _, name := range []string{"edit.paste", "arrange.moveUp", "edit.copy"} {
		registry.Register(name, named(name, 0))
	}
	registry.Register("edit.copy", named("again", 0))

	if got := strings.Join(registry.List(), ","); got != "arrange.moveUp,edit.copy,edit.paste" {
		t.Errorf("List() = %s", got)
	}
}
