// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"digit-sketch/internal/app"
	"digit-sketch/internal/mnist"
	"digit-sketch/internal/model"
	"digit-sketch/ui/panels"
	"digit-sketch/ui/prefs"
	"digit-sketch/ui/sketchpad"
)

const (
	prefKeyModel     = "model"
	prefKeyDataDir   = "mnistDataDir"
	prefKeyWinWidth  = "windowWidth"
	prefKeyWinHeight = "windowHeight"
)

// Default window size when no saved geometry exists.
const (
	defaultWinWidth  = 680
	defaultWinHeight = 440
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	pad         *sketchpad.Pad
	prediction  *panels.PredictionPanel
	preview     *panels.PreviewPanel
	plot        *panels.PlotPanel
	status      *panels.StatusPanel
	modelSelect *widget.Select
	trainButton *widget.Button
}

// New creates the main window and wires the panels to the state.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Digit Sketch")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.restoreModel()
	mw.restoreGeometry()
	return mw
}

// restoreGeometry sizes the window from the saved preferences, falling
// back to the default layout size on first run.
func (mw *MainWindow) restoreGeometry() {
	w := mw.prefs.FloatWithFallback(prefKeyWinWidth, defaultWinWidth)
	h := mw.prefs.FloatWithFallback(prefKeyWinHeight, defaultWinHeight)
	if w < defaultWinWidth {
		w = defaultWinWidth
	}
	if h < defaultWinHeight {
		h = defaultWinHeight
	}
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// SaveGeometry records the current window size so the next run can
// restore it. Called from the close intercept before preferences are
// written out.
func (mw *MainWindow) SaveGeometry() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWinWidth, float64(size.Width))
	mw.prefs.SetFloat(prefKeyWinHeight, float64(size.Height))
}

// setupUI creates the main layout: the sketch pad on the left, the
// prediction and pipeline panels on the right.
func (mw *MainWindow) setupUI() {
	mw.pad = sketchpad.New(mw.state)
	mw.prediction = panels.NewPredictionPanel(mw.state)
	mw.preview = panels.NewPreviewPanel(mw.state)
	mw.plot = panels.NewPlotPanel(mw.state)
	mw.status = panels.NewStatusPanel(mw.state)

	clearButton := widget.NewButton("Clear", func() {
		mw.state.Clear()
	})

	mw.modelSelect = widget.NewSelect([]string{model.ArchLinear, model.ArchMLP}, func(key string) {
		mw.prefs.SetString(prefKeyModel, key)
		_ = mw.prefs.Save()
		// A missing model is reported through the status panel; the
		// pad keeps working, predictions are just withheld.
		_ = mw.state.LoadModel(key)
	})

	mw.trainButton = widget.NewButton("Train", mw.trainCurrent)

	toolbar := container.NewHBox(clearButton, mw.modelSelect, mw.trainButton)

	left := container.NewBorder(toolbar, nil, nil, nil, mw.pad)
	right := container.NewVBox(
		mw.prediction.Container(),
		mw.preview.Container(),
		mw.plot.Container(),
		mw.status.Container(),
	)

	mw.SetContent(container.NewBorder(nil, nil, nil, right, left))
}

// restoreModel selects the last used architecture (or the MLP by
// default), which also tries to load it from the store.
func (mw *MainWindow) restoreModel() {
	key := mw.prefs.String(prefKeyModel)
	if key == "" {
		key = model.ArchMLP
	}
	mw.modelSelect.SetSelected(key)
}

// trainCurrent retrains the selected architecture in the background.
// This is also the recovery path when loading a cached model failed.
func (mw *MainWindow) trainCurrent() {
	arch := mw.modelSelect.Selected
	if arch == "" {
		arch = model.ArchMLP
	}
	dataDir := mw.dataDir()
	if _, err := os.Stat(filepath.Join(dataDir, mnist.TrainImagesFile)); err != nil {
		dialog.ShowError(fmt.Errorf("MNIST files not found in %s", dataDir), mw.Window)
		return
	}

	mw.trainButton.Disable()
	go func() {
		defer mw.trainButton.Enable()
		_ = mw.state.TrainAndSave(arch, dataDir)
	}()
}

// dataDir returns the MNIST directory from preferences, defaulting to
// ~/.config/digit-sketch/mnist.
func (mw *MainWindow) dataDir() string {
	if dir := mw.prefs.String(prefKeyDataDir); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "digit-sketch", "mnist")
}
