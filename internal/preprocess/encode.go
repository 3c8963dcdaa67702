package preprocess

import (
	"image"
)

// VectorLen is the length of the flattened model input.
const VectorLen = GridSize * GridSize

// Encode converts the 28x28 raster's alpha channel into a row-major
// vector of 784 values in [0,1]. The stroke is opaque ink over a
// transparent background, so alpha encodes ink coverage directly and
// the stroke color drops out. Pure and deterministic.
func Encode(grid *image.RGBA) []float64 {
	vec := make([]float64, 0, VectorLen)
	b := grid.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			alpha := grid.Pix[grid.PixOffset(x, y)+3]
			vec = append(vec, float64(alpha)/255.0)
		}
	}
	return vec
}
