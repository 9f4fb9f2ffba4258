package pizza

import (
	"errors"
	"strconv"

	"github.com/Swind/go-frame-runner/render"
)

const (
	// ContainerClass marks every materialized record.
	ContainerClass = "randomPizzaContainer"

	pizzaImage = "images/pizza_s.png"
)

// ErrReentrantDelivery is the panic value when a batch arrives while another
// one is still being materialized.
var ErrReentrantDelivery = errors.New("record batch delivered while a previous delivery is still materializing")

// NodeID is the element id of the record at index.
func NodeID(index int) string {
	return "pizza" + strconv.Itoa(index)
}

// RecordNode maps one record to its render subtree: a container holding an
// image box and a description box with the title and the ingredient list.
// It is pure; the result is detached.
func RecordNode(index int, rec ContentRecord) *render.Node {
	container := render.NewNode("div", ContainerClass)
	container.ID = NodeID(index)
	container.SetStyle("width", "33.33%")
	container.SetStyle("height", "325px")

	imageBox := render.NewNode("div")
	imageBox.SetStyle("width", "35%")
	img := render.NewNode("img", "img-responsive")
	img.SetAttr("src", pizzaImage)
	imageBox.AppendChild(img)
	container.AppendChild(imageBox)

	description := render.NewNode("div")
	description.SetStyle("width", "65%")
	title := render.NewNode("h4")
	title.SetText(rec.Name)
	body := render.NewNode("ul")
	body.SetText(rec.Body)
	description.AppendChild(title)
	description.AppendChild(body)
	container.AppendChild(description)

	return container
}

// Materializer appends delivered records to the list container.
type Materializer struct {
	container *render.Node
	reserved  int
	busy      bool

	// OnNode, if set, is called after each node is appended.
	OnNode func(*render.Node)
}

// NewMaterializer appends into container. The first reservedSlots records of
// a batch are skipped because the page markup already shows entries there.
func NewMaterializer(container *render.Node, reservedSlots int) *Materializer {
	if reservedSlots < 0 {
		reservedSlots = 0
	}
	return &Materializer{container: container, reserved: reservedSlots}
}

// ReservedSlots returns the number of leading records that are skipped.
func (m *Materializer) ReservedSlots() int {
	return m.reserved
}

// Materialize appends one node per record after the reserved slots, in batch
// order, and returns them. It must run on the main goroutine and must not be
// re-entered.
func (m *Materializer) Materialize(batch RecordBatch) []*render.Node {
	if m.busy {
		panic(ErrReentrantDelivery)
	}
	m.busy = true
	defer func() { m.busy = false }()

	if m.reserved >= len(batch) {
		return nil
	}
	nodes := make([]*render.Node, 0, len(batch)-m.reserved)
	for i := m.reserved; i < len(batch); i++ {
		n := m.container.AppendChild(RecordNode(i, batch[i]))
		nodes = append(nodes, n)
		if m.OnNode != nil {
			m.OnNode(n)
		}
	}
	return nodes
}
