// Package sketchpad provides the freehand drawing widget.
package sketchpad

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"digit-sketch/internal/app"
	"digit-sketch/internal/raster"
)

// Pad is the drawing surface widget. Drag events feed the stroke
// session; every change redraws the shared raster and refreshes the
// display. The first drag event of a gesture opens a stroke, DragEnd
// closes it, and a plain tap paints a single dot.
type Pad struct {
	widget.BaseWidget

	state   *app.State
	display *fynecanvas.Raster
}

// New creates a sketch pad bound to the application state.
func New(state *app.State) *Pad {
	p := &Pad{state: state}

	p.display = fynecanvas.NewRaster(p.draw)
	p.display.ScaleMode = fynecanvas.ImageScalePixels
	p.display.SetMinSize(fyne.NewSize(raster.DefaultSize, raster.DefaultSize))

	state.On(app.EventStrokesChanged, func(interface{}) { p.display.Refresh() })
	state.On(app.EventCanvasCleared, func(interface{}) { p.display.Refresh() })

	p.ExtendBaseWidget(p)
	return p
}

// draw composites the ink raster over a white background at the
// widget's current size.
func (p *Pad) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	src := p.state.Surface().Raster()
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		sy := y * srcBounds.Dy() / max(h, 1)
		for x := 0; x < w; x++ {
			sx := x * srcBounds.Dx() / max(w, 1)
			alpha := src.Pix[src.PixOffset(srcBounds.Min.X+sx, srcBounds.Min.Y+sy)+3]
			// Black ink over white paper: luminance is the inverse
			// of ink coverage.
			v := 255 - alpha
			off := out.PixOffset(x, y)
			out.Pix[off+0] = v
			out.Pix[off+1] = v
			out.Pix[off+2] = v
			out.Pix[off+3] = 255
		}
	}
	return out
}

// surfacePoint converts a widget-relative event position to drawing
// surface coordinates.
func (p *Pad) surfacePoint(pos fyne.Position) (float64, float64) {
	size := p.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	x := float64(pos.X) * raster.DefaultSize / float64(size.Width)
	y := float64(pos.Y) * raster.DefaultSize / float64(size.Height)
	return x, y
}

// Dragged handles pointer movement with the button held. The first
// event of a gesture starts the stroke.
func (p *Pad) Dragged(ev *fyne.DragEvent) {
	x, y := p.surfacePoint(ev.Position)
	if !p.state.Session().IsDrawing() {
		p.state.PenDown(x, y)
		return
	}
	p.state.PenMove(x, y)
}

// DragEnd closes the stroke and lets the debounce window run.
func (p *Pad) DragEnd() {
	p.state.PenUp()
}

// Tapped paints a dot: a one-point stroke.
func (p *Pad) Tapped(ev *fyne.PointEvent) {
	// Reject clicks outside widget bounds; drag events near the edge
	// can report positions slightly past the widget.
	size := p.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	x, y := p.surfacePoint(ev.Position)
	p.state.PenDown(x, y)
	p.state.PenUp()
}

// CreateRenderer implements fyne.Widget.
func (p *Pad) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.display)
}

// MinSize keeps the pad at its native raster size.
func (p *Pad) MinSize() fyne.Size {
	return fyne.NewSize(raster.DefaultSize, raster.DefaultSize)
}
