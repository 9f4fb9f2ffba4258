package render

import (
	"errors"
	"testing"
)

// TestDocument_AdoptAndLookup tests id indexing as nodes attach and detach
// Main test items:
// 1. Nodes appended under the body become reachable by id and class
// 2. Moving a subtree keeps it indexed
// 3. Missing ids wrap ErrMissingInsertionPoint
func TestDocument_AdoptAndLookup(t *testing.T) {
	doc := NewDocument(600)

	list := NewNode("div", "row")
	list.ID = "records"
	item := NewNode("div", "randomPizzaContainer")
	item.ID = "pizza0"
	list.AppendChild(item)
	doc.Body().AppendChild(list)

	if doc.GetElementByID("pizza0") != item {
		t.Fatal("nested node not indexed on attach")
	}
	if got := doc.GetElementsByClassName("randomPizzaContainer"); len(got) != 1 || got[0] != item {
		t.Fatalf("GetElementsByClassName = %v", got)
	}

	other := NewNode("div")
	doc.Body().AppendChild(other)
	other.AppendChild(item)
	if item.Parent() != other || len(list.Children()) != 0 {
		t.Fatal("AppendChild did not move the node")
	}
	if doc.GetElementByID("pizza0") != item {
		t.Fatal("moved node lost its index entry")
	}

	_, err := doc.LookupInsertionPoint("nope")
	if !errors.Is(err, ErrMissingInsertionPoint) {
		t.Fatalf("err = %v, want ErrMissingInsertionPoint", err)
	}
}

// TestNode_LayoutVersusCompositeWrites tests write accounting
// Main test items:
// 1. Geometry style writes count as layout writes on the node and document
// 2. Transform updates only count as composite writes
// 3. Detached nodes do not touch the document counter
func TestNode_LayoutVersusCompositeWrites(t *testing.T) {
	doc := NewDocument(600)
	n := NewNode("img", "mover")
	doc.Body().AppendChild(n)

	n.SetStyle("left", "100px")
	n.SetStyle("top", "0px")
	n.SetStyle("opacity", "1")
	if n.LayoutWrites() != 2 || doc.LayoutInvalidations() != 2 {
		t.Fatalf("layout writes = %d/%d, want 2/2", n.LayoutWrites(), doc.LayoutInvalidations())
	}

	for range 5 {
		n.SetTransform(Transform{TranslateX: 10})
	}
	if n.CompositeWrites() != 5 || n.LayoutWrites() != 2 || doc.LayoutInvalidations() != 2 {
		t.Fatalf("composite=%d layout=%d doc=%d", n.CompositeWrites(), n.LayoutWrites(), doc.LayoutInvalidations())
	}

	detached := NewNode("div")
	detached.SetStyle("width", "33%")
	if doc.LayoutInvalidations() != 2 {
		t.Fatal("detached write reached the document")
	}
}

func TestTransform_String(t *testing.T) {
	if got := (Transform{TranslateX: 12.5}).String(); got != "translateX(12.5px)" {
		t.Errorf("String = %q", got)
	}
	if got := (Transform{TranslateX: 1, TranslateY: -2}).String(); got != "translate(1px, -2px)" {
		t.Errorf("String = %q", got)
	}
}

func TestDocument_ScrollClamp(t *testing.T) {
	doc := NewDocument(600)
	doc.ScrollBy(120)
	doc.ScrollBy(-500)
	if doc.ScrollTop() != 0 {
		t.Fatalf("ScrollTop = %v, want 0", doc.ScrollTop())
	}
	doc.ScrollTo(42)
	if doc.ScrollTop() != 42 {
		t.Fatalf("ScrollTop = %v, want 42", doc.ScrollTop())
	}
}
