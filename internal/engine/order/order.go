// Package order changes the stacking order of selected elements among their
// siblings.
//
// Stacking follows document order: a later sibling is drawn on top of an
// earlier one. Only recognized elements take part; other nodes such as text
// and comments are skipped when looking for neighbours and never block a
// move.
package order

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/document"
)

// Checkpointer takes an undo checkpoint.
type Checkpointer interface {
	Checkpoint() error
}

// Selection supplies the elements a move applies to.
type Selection interface {
	Get() []*html.Node
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecognizer replaces the predicate that decides which siblings count
// for ordering. The default is document.IsRecognized.
func WithRecognizer(fn func(*html.Node) bool) Option {
	return func(e *Engine) {
		if fn != nil {
			e.recognized = fn
		}
	}
}

// Engine applies reorder operations to the current selection.
type Engine struct {
	history    Checkpointer
	selection  Selection
	recognized func(*html.Node) bool
}

// New creates an order engine.
func New(history Checkpointer, sel Selection, opts ...Option) *Engine {
	e := &Engine{
		history:    history,
		selection:  sel,
		recognized: document.IsRecognized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IndexOf returns the position of n among all children of its parent, or -1
// if n has no parent.
func IndexOf(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// Previous returns the nearest preceding recognized sibling of n.
func (e *Engine) Previous(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if e.recognized(c) {
			return c
		}
	}
	return nil
}

// Next returns the nearest following recognized sibling of n.
func (e *Engine) Next(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if e.recognized(c) {
			return c
		}
	}
	return nil
}

// MoveUp moves every selected element one recognized sibling toward the
// front. An element that is already frontmost is appended last.
func (e *Engine) MoveUp() error {
	return e.apply("move up", func(n *html.Node) {
		parent := n.Parent
		if next := e.Next(n); next != nil {
			parent.RemoveChild(next)
			parent.InsertBefore(next, n)
			return
		}
		parent.RemoveChild(n)
		parent.AppendChild(n)
	})
}

// MoveDown moves every selected element one recognized sibling toward the
// back. An element that is already backmost stays where it is.
func (e *Engine) MoveDown() error {
	return e.apply("move down", func(n *html.Node) {
		prev := e.Previous(n)
		if prev == nil {
			return
		}
		parent := n.Parent
		parent.RemoveChild(n)
		parent.InsertBefore(n, prev)
	})
}

// MoveToTop makes the selected elements the last children of their parents,
// keeping their relative order.
func (e *Engine) MoveToTop() error {
	return e.apply("move to top", func(n *html.Node) {
		parent := n.Parent
		parent.RemoveChild(n)
		parent.AppendChild(n)
	})
}

// MoveToBottom makes the selected elements the first children of their
// parents. Elements are moved in document order, so a multi-selection ends up
// reversed at the back.
func (e *Engine) MoveToBottom() error {
	return e.apply("move to bottom", func(n *html.Node) {
		parent := n.Parent
		parent.RemoveChild(n)
		parent.InsertBefore(n, parent.FirstChild)
	})
}

// apply checkpoints, sorts the selection by child index and runs move on
// each attached element against the tree as left by the previous one.
func (e *Engine) apply(op string, move func(*html.Node)) error {
	if err := e.history.Checkpoint(); err != nil {
		return fmt.Errorf("order: %s: %w", op, err)
	}

	elems := e.selection.Get()
	sort.SliceStable(elems, func(i, j int) bool {
		return IndexOf(elems[i]) < IndexOf(elems[j])
	})

	for _, n := range elems {
		if n == nil || n.Parent == nil {
			continue
		}
		move(n)
	}
	return nil
}
