package document

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ElementHook runs after a new element has been inserted and initialised.
type ElementHook interface {
	OnNewElement(n *html.Node) error
}

// ElementHookFunc adapts a function to ElementHook.
type ElementHookFunc func(n *html.Node) error

// OnNewElement implements ElementHook.
func (f ElementHookFunc) OnNewElement(n *html.Node) error {
	return f(n)
}

// Option configures a Document.
type Option func(*Document)

// WithBackgroundClass sets the class that marks the background container.
func WithBackgroundClass(class string) Option {
	return func(d *Document) {
		if class != "" {
			d.backgroundClass = class
		}
	}
}

// WithElementHook sets a hook run by InitNewElement.
func WithElementHook(h ElementHook) Option {
	return func(d *Document) {
		d.hook = h
	}
}

// WithIDGenerator replaces the id generator used for new elements.
func WithIDGenerator(gen func() string) Option {
	return func(d *Document) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// Document is an editable page tree.
type Document struct {
	mu sync.RWMutex

	root *html.Node
	body *html.Node

	page   string
	scroll Point

	backgroundClass string
	hook            ElementHook
	newID           func() string
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}

	d := &Document{
		backgroundClass: DefaultBackgroundClass,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.root = root
	d.body = findBody(root)
	return d, nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

func findBody(root *html.Node) *html.Node {
	var body *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return false
		}
		return true
	})
	return body
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Stage returns the <body> element.
func (d *Document) Stage() *html.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.body
}

// Background returns the background container, or nil if the document has
// none.
func (d *Document) Background() *html.Node {
	body := d.Stage()
	if body == nil {
		return nil
	}
	var bg *html.Node
	walk(body, func(n *html.Node) bool {
		if n != body && n.Type == html.ElementNode && HasClass(n, d.backgroundClass) {
			bg = n
			return false
		}
		return true
	})
	return bg
}

// SerializedDocument renders the whole tree.
func (d *Document) SerializedDocument() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = html.Render(&b, d.root)
	return b.String()
}

// WriteTo renders the whole tree to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	s := d.SerializedDocument()
	n, err := io.WriteString(w, s)
	return int64(n), err
}

// SetSerializedDocument replaces the tree with the parsed content. Parsing
// runs on its own goroutine; onComplete is called exactly once when the
// replacement has finished or failed. On failure the current tree is kept.
func (d *Document) SetSerializedDocument(content string, onComplete func(error)) {
	go func() {
		root, err := html.Parse(strings.NewReader(content))
		if err == nil {
			d.mu.Lock()
			d.root = root
			d.body = findBody(root)
			d.mu.Unlock()
		} else {
			err = fmt.Errorf("document: replace: %w", err)
		}
		if onComplete != nil {
			onComplete(err)
		}
	}()
}

// CurrentPageID returns the active page id.
func (d *Document) CurrentPageID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.page
}

// SetCurrentPageID changes the active page.
func (d *Document) SetCurrentPageID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = id
}

// ScrollOffset returns the stage scroll offset.
func (d *Document) ScrollOffset() Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scroll
}

// SetScrollOffset records the stage scroll offset.
func (d *Document) SetScrollOffset(p Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = p
}

// Contains reports whether n is the stage or attached below it.
func (d *Document) Contains(n *html.Node) bool {
	body := d.Stage()
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == body {
			return true
		}
	}
	return false
}

// Visible reports whether n is shown on the current page. When no page is
// active, page restrictions are ignored.
func (d *Document) Visible(n *html.Node) bool {
	page := d.CurrentPageID()
	if page == "" {
		return true
	}
	for cur := n; cur != nil; cur = cur.Parent {
		v, ok := Attr(cur, AttrPages)
		if !ok {
			continue
		}
		listed := false
		for _, p := range strings.Fields(v) {
			if p == page {
				listed = true
				break
			}
		}
		if !listed {
			return false
		}
	}
	return true
}

// FindByID returns the first element whose editor id or HTML id equals id.
func (d *Document) FindByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.Root(), func(n *html.Node) bool {
		if n.Type == html.ElementNode && ElementID(n) == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Elements returns the recognized elements below the stage in document
// order.
func (d *Document) Elements() []*html.Node {
	body := d.Stage()
	if body == nil {
		return nil
	}
	var elems []*html.Node
	walk(body, func(n *html.Node) bool {
		if IsRecognized(n) {
			elems = append(elems, n)
		}
		return true
	})
	return elems
}

// SetEditable adds or removes the editable marker on n.
func (d *Document) SetEditable(n *html.Node, editable bool) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	if editable {
		AddClass(n, ClassEditable)
	} else {
		RemoveClass(n, ClassEditable)
	}
}

// AddElement appends a detached element to container.
func (d *Document) AddElement(container, n *html.Node) error {
	if container == nil {
		return ErrNoContainer
	}
	if n == nil || n.Type != html.ElementNode {
		return ErrNotElement
	}
	if n.Parent != nil || n.PrevSibling != nil || n.NextSibling != nil {
		return ErrAttached
	}
	container.AppendChild(n)
	return nil
}

// RemoveElement detaches n from the tree.
func (d *Document) RemoveElement(n *html.Node) error {
	if n == nil || n.Parent == nil {
		return ErrDetached
	}
	if n == d.Stage() {
		return ErrStageElement
	}
	n.Parent.RemoveChild(n)
	return nil
}

// BoundingBox returns the combined box of elems.
func (d *Document) BoundingBox(elems []*html.Node) Box {
	return BoundingBox(elems)
}

// SetPosition moves n to p.
func (d *Document) SetPosition(n *html.Node, p Point) {
	SetPosition(n, p)
}

// InitNewElement prepares a freshly inserted element: it and every
// recognized descendant get a new editor id and the editable marker, then the
// configured hook runs.
func (d *Document) InitNewElement(n *html.Node) error {
	if n == nil || n.Type != html.ElementNode {
		return ErrNotElement
	}
	walk(n, func(c *html.Node) bool {
		if c == n || IsRecognized(c) {
			SetAttr(c, AttrID, d.newID())
			d.SetEditable(c, true)
		}
		return true
	})
	if d.hook != nil {
		if err := d.hook.OnNewElement(n); err != nil {
			return fmt.Errorf("document: new element hook: %w", err)
		}
	}
	return nil
}
