package dispatcher_test

import (
	"strings"
	"testing"

	"github.com/dshills/canvasedit/internal/dispatcher"
	"github.com/dshills/canvasedit/internal/dispatcher/execctx"
	"github.com/dshills/canvasedit/internal/dispatcher/handler"
	"github.com/dshills/canvasedit/internal/input"
)

// stubNamespace answers each known action with its mapped message.
type stubNamespace struct {
	name    string
	actions map[string]string
}

func (s stubNamespace) Namespace() string { return s.name }

func (s stubNamespace) CanHandle(actionName string) bool {
	_, ok := s.actions[actionName]
	return ok
}

func (s stubNamespace) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return handler.SuccessWithMessage(s.actions[action.Name])
}

func arrangeHandler() stubNamespace {
	return stubNamespace{name: "arrange", actions: map[string]string{"arrange.moveUp": "up"}}
}

func TestRouterRoute(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("arrange", arrangeHandler())

	h := router.Route("arrange.moveUp")
	if h == nil {
		t.Fatal("expected handler for arrange.moveUp")
	}
	if r := h.Handle(input.Action{Name: "arrange.moveUp"}, execctx.New()); r.Message != "up" {
		t.Errorf("unexpected result %+v", r)
	}

	for _, name := range []string{"arrange.spin", "edit.copy", "noNamespace"} {
		if router.Route(name) != nil {
			t.Errorf("expected no handler for %s", name)
		}
		if router.CanRoute(name) {
			t.Errorf("CanRoute(%s) should be false", name)
		}
	}
}

func TestRouterNamespaces(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("edit", stubNamespace{name: "edit"})
	router.RegisterNamespace("arrange", arrangeHandler())

	if got := strings.Join(router.Namespaces(), ","); got != "arrange,edit" {
		t.Errorf("Namespaces() = %s", got)
	}
	if router.NamespaceHandler("edit") == nil {
		t.Error("expected edit namespace handler")
	}

	router.UnregisterNamespace("edit")
	if router.NamespaceHandler("edit") != nil {
		t.Error("expected edit namespace to be removed")
	}
}

func TestBuildActionName(t *testing.T) {
	tests := []struct {
		namespace, action, want string
	}{
		{"edit", "undo", "edit.undo"},
		{"", "undo", "undo"},
	}
	for _, tt := range tests {
		if got := dispatcher.BuildActionName(tt.namespace, tt.action); got != tt.want {
			t.Errorf("BuildActionName(%q, %q) = %q, want %q", tt.namespace, tt.action, got, tt.want)
		}
	}
}
