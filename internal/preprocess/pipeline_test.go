package preprocess

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digit-sketch/internal/raster"
	"digit-sketch/internal/sketch"
	"digit-sketch/pkg/geometry"
)

// inkRect returns an RGBA image with an opaque rectangle of ink.
func inkRect(w, h int, x1, y1, x2, y2 int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			img.Pix[img.PixOffset(x, y)+3] = 255
		}
	}
	return img
}

func TestInkBoundsTight(t *testing.T) {
	img := inkRect(100, 80, 30, 20, 49, 59)

	box, err := InkBounds(img)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRectInt(30, 20, 20, 40), box)
}

func TestInkBoundsBlankCanvas(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))

	_, err := InkBounds(img)
	require.ErrorIs(t, err, ErrBlankCanvas)

	// Run short-circuits the same way: no vector is ever produced.
	_, err = Run(img)
	require.ErrorIs(t, err, ErrBlankCanvas)
}

func TestInkBoundsIgnoresFaintFringe(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	img.Pix[img.PixOffset(5, 5)+3] = InkThreshold // at the threshold, not above
	_, err := InkBounds(img)
	assert.ErrorIs(t, err, ErrBlankCanvas)

	img.Pix[img.PixOffset(5, 5)+3] = InkThreshold + 1
	box, err := InkBounds(img)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRectInt(5, 5, 1, 1), box)
}

func TestCropContainsAllInkWithMargin(t *testing.T) {
	img := inkRect(200, 200, 60, 70, 90, 110)

	cropped, err := Crop(img, 10)
	require.NoError(t, err)

	// Margin on every side, clamped inside the source.
	assert.Equal(t, 31+20, cropped.Bounds().Dx())
	assert.Equal(t, 41+20, cropped.Bounds().Dy())

	// All ink survived the crop.
	var ink int
	for i := 3; i < len(cropped.Pix); i += 4 {
		if cropped.Pix[i] > 0 {
			ink++
		}
	}
	assert.Equal(t, 31*41, ink)
}

func TestCropMarginClampedAtEdges(t *testing.T) {
	img := inkRect(50, 50, 0, 0, 4, 4)

	cropped, err := Crop(img, 16)
	require.NoError(t, err)
	// Margin cannot extend past the canvas: top-left is clamped.
	assert.Equal(t, 21, cropped.Bounds().Dx())
	assert.Equal(t, 21, cropped.Bounds().Dy())
}

func TestResampleAlwaysProduces28x28(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"square", 100, 100},
		{"wide", 200, 10},
		{"tall", 5, 300},
		{"tiny", 1, 1},
		{"exact", 28, 28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := inkRect(tt.w, tt.h, 0, 0, tt.w-1, tt.h-1)
			grid := Resample(src)
			assert.Equal(t, GridSize, grid.Bounds().Dx())
			assert.Equal(t, GridSize, grid.Bounds().Dy())
		})
	}
}

func TestEncodeProperties(t *testing.T) {
	// All-transparent input encodes as all zeros.
	zero := Encode(image.NewRGBA(image.Rect(0, 0, GridSize, GridSize)))
	require.Len(t, zero, VectorLen)
	for _, v := range zero {
		require.Equal(t, 0.0, v)
	}

	// All-opaque input encodes as all ones.
	one := Encode(inkRect(GridSize, GridSize, 0, 0, GridSize-1, GridSize-1))
	require.Len(t, one, VectorLen)
	for _, v := range one {
		require.Equal(t, 1.0, v)
	}
}

func TestEncodeRowMajorAndRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, GridSize, GridSize))
	img.Pix[img.PixOffset(3, 2)+3] = 128 // x=3, y=2

	vec := Encode(img)
	require.Len(t, vec, VectorLen)
	assert.InDelta(t, 128.0/255.0, vec[2*GridSize+3], 1e-9)
	for i, v := range vec {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 1.0, "index %d", i)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	r := raster.NewRenderer(280, 280)
	r.DrawStrokes([]sketch.Stroke{{Points: []geometry.Point2D{
		{X: 80, Y: 60}, {X: 120, Y: 150}, {X: 200, Y: 210},
	}}})

	first, err := Run(r.Raster())
	require.NoError(t, err)
	second, err := Run(r.Raster())
	require.NoError(t, err)

	assert.Equal(t, first.Vector, second.Vector)
}

func TestPipelineCenterTap(t *testing.T) {
	r := raster.NewRenderer(280, 280)
	r.DrawStrokes([]sketch.Stroke{{Points: []geometry.Point2D{{X: 140, Y: 140}}}})

	result, err := Run(r.Raster())
	require.NoError(t, err)
	require.Len(t, result.Vector, VectorLen)

	// A centered dot lands near the middle of the grid (index 378
	// is row 13, column 14). Mass near the center, corners empty.
	center := result.Vector[13*GridSize+14]
	assert.Greater(t, center, 0.5)
	assert.Equal(t, 0.0, result.Vector[0])
	assert.Equal(t, 0.0, result.Vector[VectorLen-1])
}

func TestPipelineNormalizesPositionAndScale(t *testing.T) {
	// The same dot drawn at two different canvas positions produces
	// the same vector, because the crop removes the position.
	left := raster.NewRenderer(280, 280)
	left.DrawStrokes([]sketch.Stroke{{Points: []geometry.Point2D{{X: 60, Y: 60}}}})
	right := raster.NewRenderer(280, 280)
	right.DrawStrokes([]sketch.Stroke{{Points: []geometry.Point2D{{X: 220, Y: 200}}}})

	a, err := Run(left.Raster())
	require.NoError(t, err)
	b, err := Run(right.Raster())
	require.NoError(t, err)

	assert.Equal(t, a.Vector, b.Vector)
}
