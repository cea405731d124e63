// Package clipboard copies element subtrees out of the live document and
// pastes fresh copies of them back in.
//
// Copy replaces the buffer with detached deep clones of the selected
// elements and remembers the container they came from. Paste never consumes
// the buffer: every paste clones the buffered entries again, inserts the new
// clones into a resolved target container and translates them as one rigid
// group so that their combined bounding box lands at a fixed anchor relative
// to the visible part of the stage.
package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"weak"

	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/document"
)

// DefaultAnchor is the drop point of a paste, relative to the scrolled
// viewport's top-left corner.
var DefaultAnchor = document.Point{X: 100, Y: 100}

// ErrRootElement indicates an attempt to copy the stage element.
var ErrRootElement = errors.New("clipboard: the stage element cannot be copied")

// CopyError reports an element that could not be copied.
type CopyError struct {
	Element *html.Node
	Err     error
}

func (e *CopyError) Error() string {
	id := document.ElementID(e.Element)
	if id == "" && e.Element != nil {
		id = "<" + e.Element.Data + ">"
	}
	return fmt.Sprintf("clipboard: copy %s: %v", id, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Model is the part of the document model the clipboard needs.
type Model interface {
	// Stage returns the root element, which is never copied.
	Stage() *html.Node
	// Background returns the background container, or nil.
	Background() *html.Node
	// Contains reports whether n is attached to the live tree.
	Contains(n *html.Node) bool
	// Visible reports whether n is shown on the active page.
	Visible(n *html.Node) bool
	// ScrollOffset returns the current stage scroll offset.
	ScrollOffset() document.Point

	SetEditable(n *html.Node, editable bool)
	AddElement(container, n *html.Node) error
	BoundingBox(elems []*html.Node) document.Box
	SetPosition(n *html.Node, p document.Point)
	// InitNewElement runs the new-element initialisation on an inserted clone.
	InitNewElement(n *html.Node) error
}

// Checkpointer takes an undo checkpoint.
type Checkpointer interface {
	Checkpoint() error
}

// Selection is the selection store pastes replace.
type Selection interface {
	Set(elems []*html.Node)
}

// Option configures a Manager.
type Option func(*Manager)

// WithAnchor changes the paste drop point.
func WithAnchor(p document.Point) Option {
	return func(m *Manager) {
		m.anchor = p
	}
}

// Manager owns the clipboard buffer of one editing session.
type Manager struct {
	mu sync.Mutex

	model     Model
	history   Checkpointer
	selection Selection
	anchor    document.Point

	entries []*html.Node

	// parent is the container of the last copied element. It does not keep
	// the node alive and is re-validated on every paste.
	parent weak.Pointer[html.Node]
}

// New creates a clipboard manager.
func New(model Model, history Checkpointer, sel Selection, opts ...Option) *Manager {
	m := &Manager{
		model:     model,
		history:   history,
		selection: sel,
		anchor:    DefaultAnchor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Copy replaces the buffer with clones of elems. The stage element is
// rejected with a *CopyError wrapping ErrRootElement; the remaining elements
// are still copied. The buffer is left untouched when elems holds no
// eligible element.
func (m *Manager) Copy(elems []*html.Node) error {
	if len(elems) == 0 {
		return nil
	}

	stage := m.model.Stage()
	var (
		errs    []error
		entries []*html.Node
		parent  *html.Node
	)
	for _, n := range elems {
		if n == nil {
			continue
		}
		if n == stage {
			errs = append(errs, &CopyError{Element: n, Err: ErrRootElement})
			continue
		}
		entries = append(entries, m.snapshot(n))
		parent = n.Parent
	}

	if len(entries) > 0 {
		m.mu.Lock()
		m.entries = entries
		if parent != nil {
			m.parent = weak.Make(parent)
		} else {
			m.parent = weak.Pointer[html.Node]{}
		}
		m.mu.Unlock()
	}

	return errors.Join(errs...)
}

// snapshot clones n with the editable marker removed. The marker is put
// back on n on every exit path.
func (m *Manager) snapshot(n *html.Node) *html.Node {
	m.model.SetEditable(n, false)
	defer m.model.SetEditable(n, true)
	return document.Clone(n)
}

// Paste inserts a fresh copy of every buffered entry and selects the copies.
// It takes an undo checkpoint first. An empty buffer is a no-op.
func (m *Manager) Paste() ([]*html.Node, error) {
	m.mu.Lock()
	entries := m.entries
	parent := m.parent.Value()
	anchor := m.anchor
	m.mu.Unlock()

	if len(entries) == 0 {
		return nil, nil
	}

	if err := m.history.Checkpoint(); err != nil {
		return nil, fmt.Errorf("clipboard: paste: %w", err)
	}

	container := m.target(parent)

	bb := m.model.BoundingBox(entries)
	scroll := m.model.ScrollOffset()
	offsetX := anchor.X + scroll.X - bb.Left
	offsetY := anchor.Y + scroll.Y - bb.Top

	pasted := make([]*html.Node, 0, len(entries))
	for _, entry := range entries {
		n := document.Clone(entry)
		if err := m.model.AddElement(container, n); err != nil {
			return pasted, fmt.Errorf("clipboard: paste: %w", err)
		}
		pasted = append(pasted, n)

		own := m.model.BoundingBox([]*html.Node{n})
		m.model.SetPosition(n, document.Point{X: own.Left + offsetX, Y: own.Top + offsetY})
	}

	// Initialization runs once every copy is in place; a failing hook does
	// not stop the others.
	var errs []error
	for _, n := range pasted {
		if err := m.model.InitNewElement(n); err != nil {
			errs = append(errs, err)
		}
	}

	m.selection.Set(pasted)
	if err := errors.Join(errs...); err != nil {
		return pasted, fmt.Errorf("clipboard: paste: %w", err)
	}
	return pasted, nil
}

// target resolves the container a paste goes into: the copy-time parent if
// it is still attached and visible, else the background container, else the
// stage.
func (m *Manager) target(parent *html.Node) *html.Node {
	if parent != nil && m.model.Contains(parent) && m.model.Visible(parent) {
		return parent
	}
	if bg := m.model.Background(); bg != nil {
		return bg
	}
	return m.model.Stage()
}

// SetAnchor changes the paste drop point for later pastes.
func (m *Manager) SetAnchor(p document.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anchor = p
}

// Len returns the number of buffered entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns copies of the buffered entries.
func (m *Manager) Entries() []*html.Node {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*html.Node, len(m.entries))
	for i, e := range m.entries {
		out[i] = document.Clone(e)
	}
	return out
}

// Parent returns the copy-time container if it is still reachable.
func (m *Manager) Parent() *html.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parent.Value()
}

// Clear empties the buffer.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.parent = weak.Pointer[html.Node]{}
}
