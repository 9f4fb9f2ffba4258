package render

import (
	"errors"
	"fmt"
)

// ErrMissingInsertionPoint reports that markup the page depends on is absent.
var ErrMissingInsertionPoint = errors.New("missing render-tree insertion point")

// Document is the root of a render tree plus the viewport it is shown in.
type Document struct {
	body *Node
	byID map[string]*Node

	viewportHeight float64
	scrollTop      float64

	layoutInvalidations int
}

// NewDocument creates an empty document with a body node.
func NewDocument(viewportHeight float64) *Document {
	d := &Document{
		byID:           make(map[string]*Node),
		viewportHeight: viewportHeight,
	}
	d.body = NewNode("body")
	d.body.doc = d
	return d
}

// Body returns the root node.
func (d *Document) Body() *Node {
	return d.body
}

// ViewportHeight is the visible height in pixels.
func (d *Document) ViewportHeight() float64 {
	return d.viewportHeight
}

// SetViewportHeight updates the viewport after a host resize.
func (d *Document) SetViewportHeight(h float64) {
	d.viewportHeight = h
}

// ScrollTop returns the current vertical scroll offset in pixels.
func (d *Document) ScrollTop() float64 {
	return d.scrollTop
}

// ScrollTo sets the scroll offset, clamped at zero.
func (d *Document) ScrollTo(offset float64) {
	if offset < 0 {
		offset = 0
	}
	d.scrollTop = offset
}

// ScrollBy moves the scroll offset by delta pixels.
func (d *Document) ScrollBy(delta float64) {
	d.ScrollTo(d.scrollTop + delta)
}

// LayoutInvalidations counts geometry style writes on attached nodes.
func (d *Document) LayoutInvalidations() int {
	return d.layoutInvalidations
}

// GetElementByID returns the attached node with the given id.
func (d *Document) GetElementByID(id string) *Node {
	return d.byID[id]
}

// LookupInsertionPoint returns the attached node with the given id, or an
// error wrapping ErrMissingInsertionPoint.
func (d *Document) LookupInsertionPoint(id string) (*Node, error) {
	n := d.byID[id]
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMissingInsertionPoint, id)
	}
	return n, nil
}

// GetElementsByClassName returns attached nodes carrying class, in tree order.
func (d *Document) GetElementsByClassName(class string) []*Node {
	var out []*Node
	d.body.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (d *Document) adopt(n *Node) {
	n.Walk(func(x *Node) bool {
		x.doc = d
		if x.ID != "" {
			d.byID[x.ID] = x
		}
		return true
	})
}

func (d *Document) forget(n *Node) {
	n.Walk(func(x *Node) bool {
		if x.ID != "" && d.byID[x.ID] == x {
			delete(d.byID, x.ID)
		}
		x.doc = nil
		return true
	})
}
