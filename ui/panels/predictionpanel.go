// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"digit-sketch/internal/app"
	"digit-sketch/internal/model"
)

// PredictionPanel shows the predicted digit and the per-class
// probability bars.
type PredictionPanel struct {
	state     *app.State
	container fyne.CanvasObject

	result *widget.Label
	bars   [model.ClassCount]*widget.ProgressBar
}

// NewPredictionPanel creates the prediction display.
func NewPredictionPanel(state *app.State) *PredictionPanel {
	pp := &PredictionPanel{state: state}

	pp.result = widget.NewLabel("Draw a digit")
	pp.result.TextStyle = fyne.TextStyle{Bold: true}
	pp.result.Alignment = fyne.TextAlignCenter

	rows := container.NewVBox()
	for i := range pp.bars {
		pp.bars[i] = widget.NewProgressBar()
		rows.Add(container.NewBorder(nil, nil,
			widget.NewLabel(fmt.Sprintf("%d", i)), nil, pp.bars[i]))
	}

	pp.container = widget.NewCard("Prediction", "", container.NewVBox(pp.result, rows))

	state.On(app.EventPredictionReady, func(data interface{}) {
		if pred, ok := data.(app.Prediction); ok {
			pp.show(pred)
		}
	})
	state.On(app.EventPredictionCleared, func(interface{}) {
		pp.clear()
	})

	return pp
}

// Container returns the panel container.
func (pp *PredictionPanel) Container() fyne.CanvasObject {
	return pp.container
}

func (pp *PredictionPanel) show(pred app.Prediction) {
	pp.result.SetText(fmt.Sprintf("%d  (%.0f%%)", pred.Class, pred.Confidence*100))
	for i := range pp.bars {
		pp.bars[i].SetValue(pred.Probs[i])
	}
}

func (pp *PredictionPanel) clear() {
	pp.result.SetText("Draw a digit")
	for i := range pp.bars {
		pp.bars[i].SetValue(0)
	}
}
