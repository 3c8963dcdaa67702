package panels

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"digit-sketch/internal/app"
	"digit-sketch/pkg/colorutil"
)

// PlotPanel charts per-epoch training loss and test accuracy.
type PlotPanel struct {
	state     *app.State
	container fyne.CanvasObject

	mu     sync.Mutex
	losses []float64
	accs   []float64

	chart *fynecanvas.Raster
	label *widget.Label
}

// NewPlotPanel creates the loss/accuracy chart.
func NewPlotPanel(state *app.State) *PlotPanel {
	pl := &PlotPanel{state: state}

	pl.chart = fynecanvas.NewRaster(pl.draw)
	pl.chart.SetMinSize(fyne.NewSize(220, 120))
	pl.label = widget.NewLabel("No training yet")

	pl.container = widget.NewCard("Training", "", container.NewVBox(pl.chart, pl.label))

	state.On(app.EventTrainingProgress, func(data interface{}) {
		update, ok := data.(app.TrainingUpdate)
		if !ok {
			return
		}
		pl.mu.Lock()
		if update.Epoch == 1 {
			pl.losses = nil
			pl.accs = nil
		}
		pl.losses = append(pl.losses, update.Loss)
		pl.accs = append(pl.accs, update.Accuracy)
		pl.mu.Unlock()

		pl.label.SetText(fmt.Sprintf("%s epoch %d/%d: loss %.4f, accuracy %.2f%%",
			update.Arch, update.Epoch, update.Epochs, update.Loss, update.Accuracy*100))
		pl.chart.Refresh()
	})

	return pl
}

// Container returns the panel container.
func (pl *PlotPanel) Container() fyne.CanvasObject {
	return pl.container
}

// draw renders both series: loss scaled to its own maximum (magenta)
// and accuracy on a fixed 0-1 scale (green).
func (pl *PlotPanel) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}

	pl.mu.Lock()
	losses := append([]float64(nil), pl.losses...)
	accs := append([]float64(nil), pl.accs...)
	pl.mu.Unlock()

	if len(losses) < 2 || w < 4 || h < 4 {
		return out
	}

	maxLoss := losses[0]
	for _, l := range losses {
		if l > maxLoss {
			maxLoss = l
		}
	}
	if maxLoss <= 0 {
		maxLoss = 1
	}

	plotSeries(out, losses, maxLoss, colorutil.Magenta)
	plotSeries(out, accs, 1.0, colorutil.Green)
	return out
}

// plotSeries draws one polyline scaled so that scale maps to the top
// of the chart.
func plotSeries(out *image.RGBA, values []float64, scale float64, col color.RGBA) {
	bounds := out.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	n := len(values)
	if n < 2 {
		return
	}

	toXY := func(i int) (int, int) {
		x := i * (w - 1) / (n - 1)
		y := h - 1 - int(values[i]/scale*float64(h-1))
		return x, y
	}

	px, py := toXY(0)
	for i := 1; i < n; i++ {
		x, y := toXY(i)
		drawLine(out, px, py, x, y, col, 2)
		px, py = x, y
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := out.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					out.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
