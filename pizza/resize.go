package pizza

import "github.com/Swind/go-frame-runner/render"

var (
	sizeLabels = [...]string{"Small", "Medium", "Large"}
	sizeWidths = [...]string{"25%", "30%", "50%"}
)

// SizeFor maps a slider level (1-3) to its label and container width.
func SizeFor(level int) (label, width string, ok bool) {
	if level < 1 || level > len(sizeLabels) {
		return "", "", false
	}
	return sizeLabels[level-1], sizeWidths[level-1], true
}

// Resizer applies the size slider to the page.
type Resizer struct {
	doc   *render.Document
	label *render.Node
}

// NewResizer looks up the size label by id.
func NewResizer(doc *render.Document, labelID string) (*Resizer, error) {
	label, err := doc.LookupInsertionPoint(labelID)
	if err != nil {
		return nil, err
	}
	return &Resizer{doc: doc, label: label}, nil
}

// Resize sets the label text and the width of every record container.
// Levels outside 1-3 are ignored and report false. Main goroutine only.
func (r *Resizer) Resize(level int) (resized int, ok bool) {
	label, width, ok := SizeFor(level)
	if !ok {
		return 0, false
	}
	r.label.SetText(label)

	containers := r.doc.GetElementsByClassName(ContainerClass)
	for _, c := range containers {
		c.SetStyle("width", width)
	}
	return len(containers), true
}
