package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Attribute and class names used by the editor.
const (
	// AttrType holds the element type classification.
	AttrType = "data-element-type"

	// AttrID holds the editor-assigned element id.
	AttrID = "data-element-id"

	// AttrPages lists the page ids an element is shown on.
	AttrPages = "data-pages"

	// ClassEditable marks an element as editable on the stage.
	ClassEditable = "editable-style"

	// DefaultBackgroundClass is the class of the background container.
	DefaultBackgroundClass = "background"
)

// Type is an element type classification.
type Type uint8

const (
	// TypeNone marks an unrecognized node.
	TypeNone Type = iota
	// TypeText is a rich text box.
	TypeText
	// TypeHTML is a raw HTML block.
	TypeHTML
	// TypeImage is an image element.
	TypeImage
	// TypeContainer is a container that holds other elements.
	TypeContainer
)

// String returns the attribute value for the type.
func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeHTML:
		return "html"
	case TypeImage:
		return "image"
	case TypeContainer:
		return "container"
	default:
		return "none"
	}
}

// ParseType maps an attribute value to a Type.
func ParseType(s string) Type {
	switch s {
	case "text":
		return TypeText
	case "html":
		return TypeHTML
	case "image":
		return TypeImage
	case "container":
		return TypeContainer
	default:
		return TypeNone
	}
}

// Classify returns the element type of n, or TypeNone if n is not a
// recognized element.
func Classify(n *html.Node) Type {
	if n == nil || n.Type != html.ElementNode {
		return TypeNone
	}
	v, ok := Attr(n, AttrType)
	if !ok {
		return TypeNone
	}
	return ParseType(v)
}

// IsRecognized reports whether n is a recognized element.
func IsRecognized(n *html.Node) bool {
	return Classify(n) != TypeNone
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the attribute key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes the attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether n carries the class name.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds the class name to n if missing.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	if v = strings.TrimSpace(v); v != "" {
		v += " "
	}
	SetAttr(n, "class", v+class)
}

// RemoveClass removes the class name from n.
func RemoveClass(n *html.Node, class string) {
	v, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ElementID returns the editor id of n, falling back to the HTML id.
func ElementID(n *html.Node) string {
	if v, ok := Attr(n, AttrID); ok && v != "" {
		return v
	}
	v, _ := Attr(n, "id")
	return v
}

// Clone returns a deep copy of n. The copy carries every attribute and
// descendant but has no parent or siblings.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// walk calls fn for n and each descendant in document order.
// Returning false from fn stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
