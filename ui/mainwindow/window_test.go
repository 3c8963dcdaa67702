package mainwindow

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"digit-sketch/internal/app"
	"digit-sketch/ui/prefs"
)

func TestWindowGeometryPersists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	fyneApp := test.NewApp()

	p := prefs.Load()
	mw := New(fyneApp, app.NewState(), p)
	mw.Resize(fyne.NewSize(900, 700))
	mw.SaveGeometry()

	assert.InDelta(t, float64(mw.Canvas().Size().Width),
		p.FloatWithFallback(prefKeyWinWidth, 0), 0.5)
	assert.InDelta(t, float64(mw.Canvas().Size().Height),
		p.FloatWithFallback(prefKeyWinHeight, 0), 0.5)

	// A fresh window picks the saved size back up.
	restored := New(fyneApp, app.NewState(), p)
	assert.InDelta(t, float64(mw.Canvas().Size().Width),
		float64(restored.Canvas().Size().Width), 0.5)
	assert.InDelta(t, float64(mw.Canvas().Size().Height),
		float64(restored.Canvas().Size().Height), 0.5)
}

func TestWindowGeometryClampedToMinimum(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	fyneApp := test.NewApp()

	p := prefs.Load()
	p.SetFloat(prefKeyWinWidth, 100)
	p.SetFloat(prefKeyWinHeight, 80)

	mw := New(fyneApp, app.NewState(), p)
	assert.GreaterOrEqual(t, float64(mw.Canvas().Size().Width), float64(defaultWinWidth))
	assert.GreaterOrEqual(t, float64(mw.Canvas().Size().Height), float64(defaultWinHeight))
}
