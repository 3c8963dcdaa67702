package panels

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/nfnt/resize"

	"digit-sketch/internal/app"
	"digit-sketch/internal/preprocess"
)

// previewScale magnifies the 28x28 grid for display.
const previewScale = 4

// PreviewPanel shows the intermediate pipeline rasters: the cropped
// drawing region and the 28x28 model input. Pure visualization; the
// inference path does not depend on it.
type PreviewPanel struct {
	state     *app.State
	container fyne.CanvasObject

	cropped *fynecanvas.Image
	grid    *fynecanvas.Image
}

// NewPreviewPanel creates the preprocessing preview display.
func NewPreviewPanel(state *app.State) *PreviewPanel {
	pv := &PreviewPanel{state: state}

	side := float32(preprocess.GridSize * previewScale)

	pv.cropped = fynecanvas.NewImageFromImage(blankPreview())
	pv.cropped.FillMode = fynecanvas.ImageFillContain
	pv.cropped.SetMinSize(fyne.NewSize(side, side))

	pv.grid = fynecanvas.NewImageFromImage(blankPreview())
	pv.grid.ScaleMode = fynecanvas.ImageScalePixels
	pv.grid.FillMode = fynecanvas.ImageFillContain
	pv.grid.SetMinSize(fyne.NewSize(side, side))

	pv.container = widget.NewCard("Pipeline", "", container.NewHBox(
		container.NewVBox(widget.NewLabel("Crop"), pv.cropped),
		container.NewVBox(widget.NewLabel("28x28"), pv.grid),
	))

	state.On(app.EventPredictionReady, func(data interface{}) {
		if pred, ok := data.(app.Prediction); ok && pred.Pipeline != nil {
			pv.show(pred.Pipeline)
		}
	})
	state.On(app.EventPredictionCleared, func(interface{}) {
		pv.clear()
	})

	return pv
}

// Container returns the panel container.
func (pv *PreviewPanel) Container() fyne.CanvasObject {
	return pv.container
}

func (pv *PreviewPanel) show(result *preprocess.Result) {
	pv.cropped.Image = result.Cropped
	pv.cropped.Refresh()

	// Magnify with nearest-neighbor so the individual grid cells stay
	// visible instead of being smoothed away.
	side := uint(preprocess.GridSize * previewScale)
	pv.grid.Image = resize.Resize(side, side, result.Grid, resize.NearestNeighbor)
	pv.grid.Refresh()
}

func (pv *PreviewPanel) clear() {
	pv.cropped.Image = blankPreview()
	pv.cropped.Refresh()
	pv.grid.Image = blankPreview()
	pv.grid.Refresh()
}

func blankPreview() image.Image {
	return image.NewRGBA(image.Rect(0, 0, preprocess.GridSize, preprocess.GridSize))
}
