// Package render models the host's render tree: a document of nodes with
// inline styles and a composited transform.
//
// The tree is owned by the main runner. Nothing in this package locks; every
// mutation must happen on the main goroutine.
package render

import (
	"fmt"
	"slices"
	"strconv"
)

// layoutProperties are style keys whose change forces layout recomputation.
var layoutProperties = map[string]bool{
	"left":   true,
	"top":    true,
	"width":  true,
	"height": true,
}

// Transform is a 2-D translation applied at composite time.
type Transform struct {
	TranslateX float64
	TranslateY float64
}

// String renders the transform in CSS syntax.
func (t Transform) String() string {
	if t.TranslateY == 0 {
		return "translateX(" + px(t.TranslateX) + ")"
	}
	return fmt.Sprintf("translate(%s, %s)", px(t.TranslateX), px(t.TranslateY))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Px formats a pixel length.
func Px(v float64) string {
	return px(v)
}

// Node is one element of the render tree.
type Node struct {
	ID      string
	Tag     string
	classes []string
	text    string
	attrs   map[string]string
	style   map[string]string

	transform    Transform
	hasTransform bool

	parent   *Node
	children []*Node
	doc      *Document

	layoutWrites    int
	compositeWrites int
}

// NewNode creates a detached node.
func NewNode(tag string, classes ...string) *Node {
	return &Node{Tag: tag, classes: classes}
}

// AddClass adds class names to the node.
func (n *Node) AddClass(classes ...string) {
	for _, c := range classes {
		if !n.HasClass(c) {
			n.classes = append(n.classes, c)
		}
	}
}

// HasClass reports whether the node carries class c.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.classes, c)
}

// Classes returns a copy of the node's classes.
func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

// SetText replaces the node's text (or markup) content.
func (n *Node) SetText(text string) {
	n.text = text
}

func (n *Node) Text() string {
	return n.text
}

// SetAttr sets an attribute such as src.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

func (n *Node) Attr(key string) string {
	return n.attrs[key]
}

// SetStyle writes an inline style property. Writes to geometry properties are
// counted as layout invalidations.
func (n *Node) SetStyle(key, value string) {
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[key] = value
	if layoutProperties[key] {
		n.layoutWrites++
		if n.doc != nil {
			n.doc.layoutInvalidations++
		}
	}
}

func (n *Node) Style(key string) string {
	return n.style[key]
}

// SetTransform replaces the node's composited transform. It never
// invalidates layout.
func (n *Node) SetTransform(t Transform) {
	n.transform = t
	n.hasTransform = true
	n.compositeWrites++
}

// Transform returns the current transform and whether one was ever set.
func (n *Node) Transform() (Transform, bool) {
	return n.transform, n.hasTransform
}

// LayoutWrites counts style writes that would force a layout pass.
func (n *Node) LayoutWrites() int {
	return n.layoutWrites
}

// CompositeWrites counts transform updates.
func (n *Node) CompositeWrites() int {
	return n.compositeWrites
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AppendChild attaches child as the last child of n. A child that already has
// a parent is moved.
func (n *Node) AppendChild(child *Node) *Node {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.doc != nil {
		n.doc.adopt(child)
	}
	return child
}

func (n *Node) removeChild(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	if n.doc != nil {
		n.doc.forget(child)
	}
	child.parent = nil
}

// Walk visits n and its descendants depth-first, stopping when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindByTag returns the first descendant (or n itself) with the given tag.
func (n *Node) FindByTag(tag string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if x.Tag == tag {
			found = x
			return false
		}
		return true
	})
	return found
}
