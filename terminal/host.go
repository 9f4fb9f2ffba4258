// Package terminal shows the page in a terminal with tcell: movers are drawn
// as glyphs over a scrolling background and the record titles in a side
// panel. Terminal input is translated into page events.
package terminal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/pizza"
	"github.com/Swind/go-frame-runner/render"
	"github.com/Swind/go-frame-runner/scroll"
	"github.com/gdamore/tcell/v2"
)

const (
	DefaultCellWidth  = 16.0
	DefaultCellHeight = 32.0
	DefaultScrollStep = 64.0

	moverGlyph = '@'
	panelWidth = 32
)

var (
	moverStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// Page is the part of the App the host drives.
type Page interface {
	ScrollBy(delta float64) error
	Resize(level int) error
	Do(ctx context.Context, fn func(doc *render.Document)) error
}

// Options configures a Host. Zero values use the defaults.
type Options struct {
	// CellWidth and CellHeight are the pixel size of one terminal cell.
	CellWidth  float64
	CellHeight float64
	ScrollStep float64
	// SizeLabelID is the id of the node whose text is the current size.
	SizeLabelID string
	Logger      core.Logger
}

// Host paints documents onto a tcell screen.
type Host struct {
	screen tcell.Screen
	opts   Options
}

// NewHost wraps an initialized screen.
func NewHost(screen tcell.Screen, opts Options) *Host {
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = DefaultCellHeight
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = DefaultScrollStep
	}
	if opts.SizeLabelID == "" {
		opts.SizeLabelID = "pizzaSize"
	}
	if opts.Logger == nil {
		opts.Logger = core.NewNoOpLogger()
	}
	return &Host{screen: screen, opts: opts}
}

// ViewportHeight is the screen height in page pixels, excluding the status line.
func (h *Host) ViewportHeight() float64 {
	_, rows := h.screen.Size()
	return float64(max(rows-1, 1)) * h.opts.CellHeight
}

// Paint draws doc. It must run on the goroutine that owns doc.
func (h *Host) Paint(doc *render.Document) {
	h.screen.Clear()
	cols, rows := h.screen.Size()
	scrollTop := doc.ScrollTop()
	fieldCols := max(cols-panelWidth, 0)

	for _, n := range doc.GetElementsByClassName(scroll.MoverClass) {
		left, _ := parsePx(n.Style("left"))
		top, _ := parsePx(n.Style("top"))
		if t, ok := n.Transform(); ok {
			left += t.TranslateX
		}
		x := int(left / h.opts.CellWidth)
		y := int((top - scrollTop) / h.opts.CellHeight)
		if x < 0 || x >= fieldCols || y < 0 || y >= rows-1 {
			continue
		}
		h.screen.SetContent(x, y, moverGlyph, nil, moverStyle)
	}

	records := doc.GetElementsByClassName(pizza.ContainerClass)
	first := int(scrollTop / h.opts.CellHeight)
	for row := 0; row < rows-1 && first+row < len(records); row++ {
		title := ""
		if n := records[first+row].FindByTag("h4"); n != nil {
			title = n.Text()
		}
		h.drawText(fieldCols, row, title, titleStyle, cols)
	}

	size := ""
	if label := doc.GetElementByID(h.opts.SizeLabelID); label != nil {
		size = label.Text()
	}
	status := fmt.Sprintf(" scroll %.0fpx | size %s | %d records | arrows/wheel scroll, 1-3 resize, q quit",
		scrollTop, size, len(records))
	h.drawText(0, rows-1, status, statusStyle, cols)

	h.screen.Show()
}

func (h *Host) drawText(x, y int, s string, style tcell.Style, limit int) {
	for _, r := range s {
		if x >= limit {
			return
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run polls terminal events and forwards them to page until the user quits,
// ctx is done or the screen is finalized. After Run returns, the polling
// goroutine exits on the next terminal event or when the caller finalizes
// the screen.
func (h *Host) Run(ctx context.Context, page Page) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := h.apply(ctx, page, ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (h *Host) apply(ctx context.Context, page Page, ev tcell.Event) (quit bool, err error) {
	action := TranslateEvent(ev, h.opts.ScrollStep, h.ViewportHeight())
	switch action.Kind {
	case ActionQuit:
		return true, nil
	case ActionScroll:
		err = page.ScrollBy(action.Delta)
	case ActionResize:
		err = page.Resize(action.Level)
	case ActionRepaint:
		h.screen.Sync()
		err = page.Do(ctx, h.Paint)
	}
	if err != nil {
		h.opts.Logger.Warn("input dropped", core.F("error", err))
	}
	return false, err
}

func parsePx(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
