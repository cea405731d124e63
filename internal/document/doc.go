// Package document provides the editable page tree that the edit commands
// operate on.
//
// A Document wraps an HTML tree parsed with golang.org/x/net/html. Elements
// are plain *html.Node values; the package adds the editor's view of them:
//
// # Classification
//
// An element node is recognized when its data-element-type attribute names
// one of the known element types (text, html, image, container). Every other
// node, including text and comment nodes, is unrecognized and is ignored by
// ordering and clipboard logic, though it still occupies a slot in its
// parent's child sequence.
//
// # Stage and background
//
// The <body> element is the stage. It can never be copied or removed. The
// first descendant carrying the background class is the background container
// that pasted elements fall back to.
//
// # Pages
//
// The current page id selects which paged elements are visible. An element is
// visible when every ancestor-or-self with a data-pages attribute lists the
// current page.
//
// # Geometry
//
// Element positions and sizes come from the left, top, width and height
// declarations of the inline style attribute, in pixels.
//
// # Replacement
//
// SetSerializedDocument parses the new content on a separate goroutine and
// invokes its completion callback exactly once, after the live tree has been
// swapped (or left untouched on error).
package document
