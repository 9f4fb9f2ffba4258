package scroll

import (
	"fmt"
	"math"

	"github.com/Swind/go-frame-runner/render"
)

// MoverClass is the class carried by every animated background node.
const MoverClass = "mover"

// Geometry describes the background grid.
type Geometry struct {
	Columns    int
	RowHeight  float64 // also used as the column width
	PhaseCount int
	Amplitude  float64
	// MoverImage is the src of every mover node.
	MoverImage string
}

// DefaultGeometry returns the 8-column, 256px grid with 5 phases.
func DefaultGeometry() Geometry {
	return Geometry{
		Columns:    DefaultColumns,
		RowHeight:  DefaultRowHeight,
		PhaseCount: DefaultPhaseCount,
		Amplitude:  DefaultAmplitude,
		MoverImage: "images/pizza_s.png",
	}
}

// Validate checks the grid is usable.
func (g Geometry) Validate() error {
	switch {
	case g.Columns < 1:
		return fmt.Errorf("columns must be positive, got %d", g.Columns)
	case g.RowHeight <= 0:
		return fmt.Errorf("row height must be positive, got %v", g.RowHeight)
	case g.PhaseCount < 1:
		return fmt.Errorf("phase count must be positive, got %d", g.PhaseCount)
	}
	return nil
}

// DesiredCount is the number of movers needed to cover viewportHeight.
// The extra row keeps the first row drawn when the height divides exactly.
func DesiredCount(viewportHeight, rowHeight float64, columns int) int {
	rows := int(math.Floor(viewportHeight/rowHeight)) + 1
	return columns * rows
}

// AnimatedElement is one mover and its static parameters.
type AnimatedElement struct {
	ID           int
	BasePosition float64
	Top          float64
	PhaseSlot    int

	node *render.Node
}

// Node returns the mover's render handle.
func (e *AnimatedElement) Node() *render.Node {
	return e.node
}

// Registry is the fixed set of movers built at startup.
type Registry struct {
	geometry Geometry
	elements []AnimatedElement
}

// BuildRegistry creates one mover per grid cell needed to fill the document's
// viewport and appends them to the container with id containerID. If the
// container is missing nothing is built.
func BuildRegistry(doc *render.Document, containerID string, g Geometry) (*Registry, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	container, err := doc.LookupInsertionPoint(containerID)
	if err != nil {
		return nil, err
	}

	count := DesiredCount(doc.ViewportHeight(), g.RowHeight, g.Columns)
	initial := BuildPhaseTable(nil, 0, g.PhaseCount)

	r := &Registry{
		geometry: g,
		elements: make([]AnimatedElement, count),
	}
	for i := range r.elements {
		e := &r.elements[i]
		e.ID = i
		e.BasePosition = float64(i%g.Columns) * g.RowHeight
		e.Top = float64(i/g.Columns) * g.RowHeight
		e.PhaseSlot = i % g.PhaseCount

		n := render.NewNode("img", MoverClass)
		n.SetAttr("src", g.MoverImage)
		n.SetStyle("height", render.Px(DefaultMoverHeightPx))
		n.SetStyle("width", render.Px(DefaultMoverWidthPx))
		n.SetStyle("left", render.Px(e.BasePosition))
		n.SetStyle("top", render.Px(e.Top))
		n.SetTransform(render.Transform{TranslateX: initial.Offset(e.PhaseSlot, g.Amplitude)})
		e.node = container.AppendChild(n)
	}
	return r, nil
}

// Len returns the number of movers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.elements)
}

// Element returns the mover with grid index id.
func (r *Registry) Element(id int) (AnimatedElement, bool) {
	if r == nil || id < 0 || id >= len(r.elements) {
		return AnimatedElement{}, false
	}
	return r.elements[id], true
}

// Geometry returns the grid the registry was built with.
func (r *Registry) Geometry() Geometry {
	return r.geometry
}

// each visits movers in registry order.
func (r *Registry) each(fn func(*AnimatedElement)) {
	for i := range r.elements {
		fn(&r.elements[i])
	}
}
