package preprocess

import (
	"image"
)

// Result holds the output of one pipeline run. The intermediate rasters
// are kept so the UI can show the crop and the scaled grid; only Vector
// crosses into the classifier.
type Result struct {
	Cropped *image.RGBA // drawn region plus margin
	Grid    *image.RGBA // 28x28 resampled raster
	Vector  []float64   // 784 values in [0,1], row-major
}

// Run executes crop -> resample -> encode on a rendered drawing.
// A blank canvas returns ErrBlankCanvas before any encoding happens.
func Run(src *image.RGBA) (*Result, error) {
	cropped, err := Crop(src, CropMargin)
	if err != nil {
		return nil, err
	}
	grid := Resample(cropped)
	return &Result{
		Cropped: cropped,
		Grid:    grid,
		Vector:  Encode(grid),
	}, nil
}
