// Package raster renders recorded pen strokes into an RGBA pixel buffer.
package raster

import (
	"image"
	"image/color"

	"digit-sketch/internal/sketch"
	"digit-sketch/pkg/geometry"
)

const (
	// DefaultSize is the side length of the square drawing surface.
	DefaultSize = 280

	// DefaultStrokeWidth keeps strokes thick enough to survive the
	// downscale to the 28x28 model input.
	DefaultStrokeWidth = 20.0
)

// Ink is the stroke color. The background stays fully transparent, so
// the alpha channel alone encodes ink coverage.
var Ink = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Surface is a drawing target for the stroke pipeline. It decouples the
// crop/resample/encode stages from the widget that displays the pixels.
type Surface interface {
	// Raster returns the current pixel buffer.
	Raster() *image.RGBA
	// Clear resets every pixel to transparent.
	Clear()
	// DrawStrokes clears the surface and redraws the full stroke history.
	DrawStrokes(strokes []sketch.Stroke)
}

// Renderer draws smoothed stroke curves into a fixed-size RGBA buffer.
// Every redraw is from scratch: the buffer is cleared and all strokes
// are painted again, so the output only depends on the stroke history.
type Renderer struct {
	img         *image.RGBA
	strokeWidth float64
	ink         color.RGBA
}

// NewRenderer creates a renderer with a width x height surface.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		strokeWidth: DefaultStrokeWidth,
		ink:         Ink,
	}
}

// SetStrokeWidth overrides the default stroke width.
func (r *Renderer) SetStrokeWidth(w float64) {
	if w > 0 {
		r.strokeWidth = w
	}
}

// Raster returns the backing pixel buffer.
func (r *Renderer) Raster() *image.RGBA {
	return r.img
}

// Clear resets the surface to fully transparent.
func (r *Renderer) Clear() {
	pix := r.img.Pix
	for i := range pix {
		pix[i] = 0
	}
}

// DrawStrokes clears the surface and redraws all strokes in recorded
// order as piecewise quadratic curves through consecutive midpoints.
func (r *Renderer) DrawStrokes(strokes []sketch.Stroke) {
	r.Clear()
	for _, s := range strokes {
		r.drawStroke(s)
	}
}

// drawStroke paints one stroke. Each curve segment uses the current raw
// point as control point and the midpoint to the next point as endpoint,
// which smooths the freehand line without storing extra points. A
// single-point stroke is painted as one dot.
func (r *Renderer) drawStroke(s sketch.Stroke) {
	pts := s.Points
	switch len(pts) {
	case 0:
		return
	case 1:
		r.stamp(pts[0])
		return
	}

	prev := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		mid := pts[i].Midpoint(pts[i+1])
		r.drawQuadratic(prev, pts[i], mid)
		prev = mid
	}
	r.drawSegment(prev, pts[len(pts)-1])
}

// drawQuadratic flattens a quadratic curve from p0 to p2 with control
// point p1 into short segments and stamps the brush along them.
func (r *Renderer) drawQuadratic(p0, p1, p2 geometry.Point2D) {
	// Step count proportional to the control polygon length so flat
	// segments stay shorter than a pixel or two.
	steps := int(p0.Distance(p1)+p1.Distance(p2))/2 + 1
	if steps > 64 {
		steps = 64
	}

	prev := p0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		// De Casteljau evaluation of the quadratic.
		x := u*u*p0.X + 2*u*t*p1.X + t*t*p2.X
		y := u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y
		cur := geometry.Point2D{X: x, Y: y}
		r.drawSegment(prev, cur)
		prev = cur
	}
}

// drawSegment stamps round brush dabs from a to b, spaced closely
// enough to read as a continuous line with round caps.
func (r *Renderer) drawSegment(a, b geometry.Point2D) {
	dist := a.Distance(b)
	step := r.strokeWidth / 4
	if step < 1 {
		step = 1
	}
	n := int(dist/step) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		r.stamp(geometry.Point2D{
			X: a.X + (b.X-a.X)*t,
			Y: a.Y + (b.Y-a.Y)*t,
		})
	}
}

// stamp paints a filled disc of the brush radius centered at p.
func (r *Renderer) stamp(p geometry.Point2D) {
	radius := r.strokeWidth / 2
	bounds := r.img.Bounds()

	minX := int(p.X - radius - 1)
	maxX := int(p.X + radius + 1)
	minY := int(p.Y - radius - 1)
	maxY := int(p.Y + radius + 1)

	r2 := radius * radius
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - p.X
			dy := float64(y) + 0.5 - p.Y
			if dx*dx+dy*dy <= r2 {
				r.img.SetRGBA(x, y, r.ink)
			}
		}
	}
}
