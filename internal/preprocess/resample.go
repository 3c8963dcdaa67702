package preprocess

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// GridSize is the side length of the model input grid. MNIST digits are
// 28x28, so the drawn region is always scaled to this size regardless of
// its aspect ratio.
const GridSize = 28

// Resample scales src to a GridSize x GridSize grid using bilinear
// interpolation. The destination is freshly allocated (and therefore
// fully transparent) before drawing, so no stale pixels survive between
// predictions.
func Resample(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, GridSize, GridSize))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
