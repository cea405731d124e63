package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals load or run code from outside the script.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// Sandbox restricts what scripts can reach.
type Sandbox struct {
	L *lua.LState

	// output receives print calls; nil discards them.
	output func(msg string)
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install removes the unsafe globals and replaces print.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
}

// SetOutput routes print calls to fn.
func (s *Sandbox) SetOutput(fn func(msg string)) {
	s.output = fn
}

func (s *Sandbox) print(L *lua.LState) int {
	if s.output == nil {
		return 0
	}
	n := L.GetTop()
	msg := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			msg += "\t"
		}
		msg += L.ToStringMeta(L.Get(i)).String()
	}
	s.output(msg)
	return 0
}

// IsRemoved reports whether a global is stripped by the sandbox.
func IsRemoved(name string) bool {
	for _, g := range removedGlobals {
		if g == name {
			return true
		}
	}
	return false
}
