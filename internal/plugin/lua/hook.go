package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/document"
)

// HookFunction is the global a hook script must define.
const HookFunction = "on_new_element"

// ElementHook runs a Lua function for every newly inserted element.
// It implements document.ElementHook.
type ElementHook struct {
	state *State
}

// NewElementHook loads the script at path.
func NewElementHook(path string, opts ...StateOption) (*ElementHook, error) {
	return newElementHook(func(s *State) error { return s.DoFile(path) }, opts...)
}

// NewElementHookString loads the hook from source code.
func NewElementHookString(code string, opts ...StateOption) (*ElementHook, error) {
	return newElementHook(func(s *State) error { return s.DoString(code) }, opts...)
}

func newElementHook(load func(*State) error, opts ...StateOption) (*ElementHook, error) {
	s, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	if err := load(s); err != nil {
		s.Close()
		return nil, fmt.Errorf("lua: load hook: %w", err)
	}
	if !s.HasFunction(HookFunction) {
		s.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoHookFunction, HookFunction)
	}
	return &ElementHook{state: s}, nil
}

// OnNewElement calls on_new_element with a table bound to n.
func (h *ElementHook) OnNewElement(n *html.Node) error {
	if n == nil {
		return nil
	}
	_, err := h.state.Call(HookFunction, h.elementTable(n))
	if err != nil {
		return fmt.Errorf("lua: %s: %w", HookFunction, err)
	}
	return nil
}

// State returns the underlying Lua state.
func (h *ElementHook) State() *State {
	return h.state
}

// Close releases the Lua state.
func (h *ElementHook) Close() error {
	return h.state.Close()
}

// elementTable builds the script view of n. The closures run inside Call.
func (h *ElementHook) elementTable(n *html.Node) *lua.LTable {
	L := h.state.L
	t := L.NewTable()
	t.RawSetString("id", lua.LString(document.ElementID(n)))
	t.RawSetString("type", lua.LString(document.Classify(n).String()))
	t.RawSetString("tag", lua.LString(n.Data))

	t.RawSetString("get_attr", L.NewFunction(func(L *lua.LState) int {
		v, ok := document.Attr(n, L.CheckString(1))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(v))
		return 1
	}))
	t.RawSetString("set_attr", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		if key == document.AttrID {
			L.RaiseError("%s is managed by the editor", key)
			return 0
		}
		if L.Get(2) == lua.LNil {
			document.RemoveAttr(n, key)
			return 0
		}
		document.SetAttr(n, key, L.CheckString(2))
		return 0
	}))
	t.RawSetString("add_class", L.NewFunction(func(L *lua.LState) int {
		document.AddClass(n, L.CheckString(1))
		return 0
	}))
	t.RawSetString("remove_class", L.NewFunction(func(L *lua.LState) int {
		document.RemoveClass(n, L.CheckString(1))
		return 0
	}))
	t.RawSetString("has_class", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(document.HasClass(n, L.CheckString(1))))
		return 1
	}))
	t.RawSetString("get_style", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(document.StyleValue(n, L.CheckString(1))))
		return 1
	}))
	t.RawSetString("set_style", L.NewFunction(func(L *lua.LState) int {
		document.SetStyleValue(n, L.CheckString(1), L.CheckString(2))
		return 0
	}))
	return t
}

var _ document.ElementHook = (*ElementHook)(nil)
