// Package preprocess turns a rendered drawing into the normalized
// 28x28 input vector the classifier consumes.
package preprocess

import (
	"errors"
	"image"

	"digit-sketch/pkg/geometry"
)

// InkThreshold is the minimum alpha value for a pixel to count as ink.
// Anti-aliased fringe below this is treated as background.
const InkThreshold = 8

// CropMargin is the symmetric padding around the tight ink bounding box,
// in source pixels, so stroke edges are not clipped.
const CropMargin = 16

// ErrBlankCanvas is returned when the raster contains no ink pixels.
// Callers must skip inference in this case.
var ErrBlankCanvas = errors.New("preprocess: no ink on canvas")

// InkBounds scans the raster and returns the tight bounding box of all
// pixels whose alpha exceeds InkThreshold. Returns ErrBlankCanvas when
// nothing is drawn.
func InkBounds(src *image.RGBA) (geometry.RectInt, error) {
	bounds := src.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := src.Pix[src.PixOffset(bounds.Min.X, y):src.PixOffset(bounds.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] > InkThreshold {
				x := bounds.Min.X + i/4
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		return geometry.RectInt{}, ErrBlankCanvas
	}
	return geometry.RectInt{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}, nil
}

// Crop extracts the drawn region of src, padded by margin on each side
// and clamped to the source bounds. The result is a copy; mutating it
// does not touch src.
func Crop(src *image.RGBA, margin int) (*image.RGBA, error) {
	box, err := InkBounds(src)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	box = box.Expand(margin, geometry.RectInt{
		X:      b.Min.X,
		Y:      b.Min.Y,
		Width:  b.Dx(),
		Height: b.Dy(),
	})

	dst := image.NewRGBA(image.Rect(0, 0, box.Width, box.Height))
	for y := 0; y < box.Height; y++ {
		srcOff := src.PixOffset(box.X, box.Y+y)
		dstOff := dst.PixOffset(0, y)
		copy(dst.Pix[dstOff:dstOff+box.Width*4], src.Pix[srcOff:srcOff+box.Width*4])
	}
	return dst, nil
}
