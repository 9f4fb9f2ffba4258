package framerunner

import (
	"github.com/Swind/go-frame-runner/pizza"
	"github.com/Swind/go-frame-runner/render"
)

// Insertion points the page markup provides.
const (
	MoverContainerID  = "movingPizzas1"
	RecordContainerID = "randomPizzas"
	SizeLabelID       = "pizzaSize"
)

// staticRecords are the entries the markup ships with. They occupy the
// reserved leading slots of every generated batch.
var staticRecords = []pizza.ContentRecord{
	{Name: "The Classic Margherita", Body: "<li>Mozzarella Cheese</li><li>Basil</li><li>Red Sauce</li><li>White Crust</li>"},
	{Name: "The Spooky Dragon", Body: "<li>Pepperoni</li><li>Ghost Peppers</li><li>Marinara</li><li>Stuffed Crust</li>"},
}

// NewPageDocument builds the page skeleton: the mover layer, the size label
// and the record list with its static entries.
func NewPageDocument(viewportHeight float64) *render.Document {
	doc := render.NewDocument(viewportHeight)
	body := doc.Body()

	movers := render.NewNode("div", "movers")
	movers.ID = MoverContainerID
	body.AppendChild(movers)

	header := render.NewNode("div", "pizza-size")
	label := render.NewNode("span")
	label.ID = SizeLabelID
	label.SetText("Medium")
	header.AppendChild(label)
	body.AppendChild(header)

	list := render.NewNode("div", "row")
	list.ID = RecordContainerID
	for i, rec := range staticRecords {
		list.AppendChild(pizza.RecordNode(i, rec))
	}
	body.AppendChild(list)

	return doc
}
