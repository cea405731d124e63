package document

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Point is a position in stage pixels.
type Point struct {
	X, Y int
}

// Box is an axis-aligned bounding box in stage pixels.
type Box struct {
	Left, Top, Width, Height int
}

// Right returns the right edge of the box.
func (b Box) Right() int { return b.Left + b.Width }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() int { return b.Top + b.Height }

type declaration struct {
	prop  string
	value string
}

func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// StyleValue returns the inline style value of prop on n.
func StyleValue(n *html.Node, prop string) string {
	s, _ := Attr(n, "style")
	for _, d := range parseStyle(s) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyleValue sets the inline style value of prop on n, keeping the order
// of the other declarations.
func SetStyleValue(n *html.Node, prop, value string) {
	s, _ := Attr(n, "style")
	decls := parseStyle(s)
	found := false
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			found = true
			break
		}
	}
	if !found {
		decls = append(decls, declaration{prop: prop, value: value})
	}
	SetAttr(n, "style", formatStyle(decls))
}

// PixelValue returns the inline style value of prop on n in whole pixels.
// Missing or unparsable values are 0.
func PixelValue(n *html.Node, prop string) int {
	v := strings.TrimSuffix(StyleValue(n, prop), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// SetPixelValue sets prop on n to a pixel value.
func SetPixelValue(n *html.Node, prop string, px int) {
	SetStyleValue(n, prop, strconv.Itoa(px)+"px")
}

// Position returns the left/top offset of n.
func Position(n *html.Node) Point {
	return Point{X: PixelValue(n, "left"), Y: PixelValue(n, "top")}
}

// SetPosition moves n to p.
func SetPosition(n *html.Node, p Point) {
	SetPixelValue(n, "left", p.X)
	SetPixelValue(n, "top", p.Y)
}

// BoundingBox returns the combined box of elems: the minimum left/top and the
// maximum right/bottom. An empty set yields the zero box.
func BoundingBox(elems []*html.Node) Box {
	first := true
	var left, top, right, bottom int
	for _, n := range elems {
		if n == nil {
			continue
		}
		p := Position(n)
		r := p.X + PixelValue(n, "width")
		b := p.Y + PixelValue(n, "height")
		if first {
			left, top, right, bottom = p.X, p.Y, r, b
			first = false
			continue
		}
		left = min(left, p.X)
		top = min(top, p.Y)
		right = max(right, r)
		bottom = max(bottom, b)
	}
	if first {
		return Box{}
	}
	return Box{Left: left, Top: top, Width: right - left, Height: bottom - top}
}
