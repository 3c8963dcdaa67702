// Command classify runs a saved digit model on an image file, pushing
// it through the same crop/resample/encode pipeline as the drawing pad.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	_ "golang.org/x/image/tiff"

	"digit-sketch/internal/model"
	"digit-sketch/internal/preprocess"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	key := flag.String("model", model.ArchMLP, "model store key to load")
	invert := flag.Bool("invert", false, "treat bright pixels as ink (MNIST-style white on black)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: classify [flags] <image>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	net, err := model.Load(*key)
	if err != nil {
		log.Fatalf("Loading model %q failed: %v (run cmd/train first)", *key, err)
	}

	src, err := loadInkImage(path, *invert)
	if err != nil {
		log.Fatalf("Loading %s failed: %v", path, err)
	}

	result, err := preprocess.Run(src)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	probs, err := net.Predict(result.Vector)
	if err != nil {
		log.Fatalf("Predict failed: %v", err)
	}

	class, confidence := model.Argmax(probs)
	fmt.Printf("%s: %d (%.1f%%)\n", path, class, confidence*100)
	for digit, p := range probs {
		fmt.Printf("  %d: %6.2f%%\n", digit, p*100)
	}
}

// loadInkImage decodes an image and re-encodes it with ink coverage in
// the alpha channel, which is what the pipeline expects. Dark pixels
// count as ink by default; -invert flips that for white-on-black input.
func loadInkImage(path string, invert bool) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			gray := uint8((299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000)
			ink := 255 - gray
			if invert {
				ink = gray
			}
			off := dst.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)
			dst.Pix[off+3] = ink
		}
	}
	return dst, nil
}
