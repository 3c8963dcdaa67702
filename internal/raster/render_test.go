package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digit-sketch/internal/sketch"
	"digit-sketch/pkg/geometry"
)

func inkCount(r *Renderer) int {
	n := 0
	pix := r.Raster().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] > 0 {
			n++
		}
	}
	return n
}

func stroke(coords ...float64) sketch.Stroke {
	var s sketch.Stroke
	for i := 0; i+1 < len(coords); i += 2 {
		s.Points = append(s.Points, geometry.NewPoint2D(coords[i], coords[i+1]))
	}
	return s
}

func TestSinglePointStrokeRendersDot(t *testing.T) {
	r := NewRenderer(100, 100)
	r.DrawStrokes([]sketch.Stroke{stroke(50, 50)})

	require.Greater(t, inkCount(r), 0, "a tap must render a dot")

	// The dot is centered on the point.
	assert.Equal(t, uint8(255), r.Raster().RGBAAt(50, 50).A)
	// And stays local: corners remain empty.
	assert.Equal(t, uint8(0), r.Raster().RGBAAt(2, 2).A)
	assert.Equal(t, uint8(0), r.Raster().RGBAAt(97, 97).A)
}

func TestStrokeRendersContinuousLine(t *testing.T) {
	r := NewRenderer(200, 200)
	r.DrawStrokes([]sketch.Stroke{stroke(20, 100, 60, 100, 100, 100, 140, 100, 180, 100)})

	// Every x along the path center line carries ink.
	for x := 20; x <= 180; x++ {
		assert.Equalf(t, uint8(255), r.Raster().RGBAAt(x, 100).A, "gap at x=%d", x)
	}
}

func TestSmoothedCurveStaysNearControlPolygon(t *testing.T) {
	r := NewRenderer(200, 200)
	// A right-angle turn: the midpoint smoothing cuts the corner but
	// must stay inside the triangle spanned by the raw points plus
	// the brush radius.
	r.DrawStrokes([]sketch.Stroke{stroke(40, 160, 40, 40, 160, 40)})

	require.Greater(t, inkCount(r), 0)
	margin := int(DefaultStrokeWidth/2) + 2
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if r.Raster().RGBAAt(x, y).A == 0 {
				continue
			}
			if x < 40-margin || y < 40-margin {
				t.Fatalf("ink outside control polygon at (%d,%d)", x, y)
			}
		}
	}
}

func TestRedrawIsFromScratch(t *testing.T) {
	r := NewRenderer(100, 100)
	r.DrawStrokes([]sketch.Stroke{stroke(20, 20)})
	require.Equal(t, uint8(255), r.Raster().RGBAAt(20, 20).A)

	// Redrawing a different history erases the old dot.
	r.DrawStrokes([]sketch.Stroke{stroke(80, 80)})
	assert.Equal(t, uint8(0), r.Raster().RGBAAt(20, 20).A)
	assert.Equal(t, uint8(255), r.Raster().RGBAAt(80, 80).A)

	// Empty history leaves a fully transparent surface.
	r.DrawStrokes(nil)
	assert.Equal(t, 0, inkCount(r))
}

func TestEmptyStrokeIsIgnored(t *testing.T) {
	r := NewRenderer(50, 50)
	r.DrawStrokes([]sketch.Stroke{{}})
	assert.Equal(t, 0, inkCount(r))
}

func TestOffCanvasPointsAreClipped(t *testing.T) {
	r := NewRenderer(50, 50)
	r.DrawStrokes([]sketch.Stroke{stroke(-30, -30, 80, 80)})
	// Must not panic; whatever crosses the surface is drawn.
	assert.Greater(t, inkCount(r), 0)
}
