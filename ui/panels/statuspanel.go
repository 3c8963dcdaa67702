package panels

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"digit-sketch/internal/app"
)

// statusLines is how many recent messages the panel keeps.
const statusLines = 8

// StatusPanel shows a rolling log of application status messages.
type StatusPanel struct {
	state     *app.State
	container fyne.CanvasObject

	mu    sync.Mutex
	lines []string
	label *widget.Label
}

// NewStatusPanel creates the status log display.
func NewStatusPanel(state *app.State) *StatusPanel {
	sp := &StatusPanel{state: state}

	sp.label = widget.NewLabel("")
	sp.label.Wrapping = fyne.TextWrapWord
	sp.container = widget.NewCard("Status", "", container.NewVScroll(sp.label))

	state.On(app.EventStatus, func(data interface{}) {
		if msg, ok := data.(string); ok {
			sp.append(msg)
		}
	})

	return sp
}

// Container returns the panel container.
func (sp *StatusPanel) Container() fyne.CanvasObject {
	return sp.container
}

func (sp *StatusPanel) append(msg string) {
	sp.mu.Lock()
	sp.lines = append(sp.lines, fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), msg))
	if len(sp.lines) > statusLines {
		sp.lines = sp.lines[len(sp.lines)-statusLines:]
	}
	text := strings.Join(sp.lines, "\n")
	sp.mu.Unlock()

	sp.label.SetText(text)
}
