package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/canvasedit/internal/dispatcher/handler"
)

// Registry manages handler registration by exact action name.
type Registry struct {
	mu sync.RWMutex

	// action name -> handlers, highest priority first
	handlers map[string][]handler.Handler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]handler.Handler)}
}

// Register adds a handler for an action name. Handlers for the same action
// are ordered by priority; equal priorities keep registration order.
func (r *Registry) Register(actionName string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := append(r.handlers[actionName], h)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() > handlers[j].Priority()
	})
	r.handlers[actionName] = handlers
}

// Get returns the highest priority handler for an action, or nil.
func (r *Registry) Get(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if handlers := r.handlers[actionName]; len(handlers) > 0 {
		return handlers[0]
	}
	return nil
}

// Has returns true if a handler is registered for the action.
func (r *Registry) Has(actionName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[actionName]) > 0
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
