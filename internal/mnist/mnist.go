// Package mnist loads the MNIST handwritten-digit dataset from the
// standard gzipped IDX files.
package mnist

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
)

const (
	// ImageSize is the side length of an MNIST digit image.
	ImageSize = 28
	// PixelCount is the number of pixels per image.
	PixelCount = ImageSize * ImageSize
	// ClassCount is the number of digit classes.
	ClassCount = 10
)

// Canonical file names as distributed on yann.lecun.com.
const (
	TrainImagesFile = "train-images-idx3-ubyte.gz"
	TrainLabelsFile = "train-labels-idx1-ubyte.gz"
	TestImagesFile  = "t10k-images-idx3-ubyte.gz"
	TestLabelsFile  = "t10k-labels-idx1-ubyte.gz"
)

// IDX magic numbers.
const (
	imagesMagic = 2051
	labelsMagic = 2049
)

// maxSamples bounds the header's sample count before any allocation,
// so a truncated or corrupt file fails fast instead of demanding
// gigabytes. The real MNIST training set holds 60000 samples.
const maxSamples = 1 << 20

// Set is a labeled collection of digit images. Pixels are stored as raw
// bytes (0-255) and normalized on demand to keep the resident size down.
type Set struct {
	Images [][]byte
	Labels []byte
}

// Len returns the number of samples in the set.
func (s *Set) Len() int {
	return len(s.Images)
}

// Vector returns sample i as a 784-length vector of values in [0,1],
// row-major, matching the drawing pipeline's encoding.
func (s *Set) Vector(i int) []float64 {
	img := s.Images[i]
	vec := make([]float64, len(img))
	for j, px := range img {
		vec[j] = float64(px) / 255.0
	}
	return vec
}

// Shuffle permutes the set in place using the given source, keeping
// images and labels paired.
func (s *Set) Shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(s.Images), func(i, j int) {
		s.Images[i], s.Images[j] = s.Images[j], s.Images[i]
		s.Labels[i], s.Labels[j] = s.Labels[j], s.Labels[i]
	})
}

// Load reads the train and test sets from dir, which must contain the
// four canonical gzip files.
func Load(dir string) (train, test *Set, err error) {
	train, err = LoadSet(
		filepath.Join(dir, TrainImagesFile),
		filepath.Join(dir, TrainLabelsFile),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("train set: %w", err)
	}
	test, err = LoadSet(
		filepath.Join(dir, TestImagesFile),
		filepath.Join(dir, TestLabelsFile),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("test set: %w", err)
	}
	return train, test, nil
}

// LoadSet reads one image/label file pair and pairs them up.
func LoadSet(imagesPath, labelsPath string) (*Set, error) {
	images, err := readImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := readLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%d images but %d labels", len(images), len(labels))
	}
	return &Set{Images: images, Labels: labels}, nil
}

// openGzip opens a gzip file and returns the decompressing reader plus
// a close function for both layers.
func openGzip(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	closer := func() error {
		gz.Close()
		return f.Close()
	}
	return gz, closer, nil
}

func readImages(path string) ([][]byte, error) {
	r, closer, err := openGzip(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%s: header: %w", path, err)
	}
	if header.Magic != imagesMagic {
		return nil, fmt.Errorf("%s: bad magic %d", path, header.Magic)
	}
	if header.Rows != ImageSize || header.Cols != ImageSize {
		return nil, fmt.Errorf("%s: unexpected image size %dx%d", path, header.Rows, header.Cols)
	}
	if header.Count > maxSamples {
		return nil, fmt.Errorf("%s: implausible sample count %d", path, header.Count)
	}

	images := make([][]byte, header.Count)
	for i := range images {
		buf := make([]byte, PixelCount)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%s: image %d: %w", path, i, err)
		}
		images[i] = buf
	}
	return images, nil
}

func readLabels(path string) ([]byte, error) {
	r, closer, err := openGzip(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%s: header: %w", path, err)
	}
	if header.Magic != labelsMagic {
		return nil, fmt.Errorf("%s: bad magic %d", path, header.Magic)
	}
	if header.Count > maxSamples {
		return nil, fmt.Errorf("%s: implausible sample count %d", path, header.Count)
	}

	labels := make([]byte, header.Count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("%s: labels: %w", path, err)
	}
	for i, l := range labels {
		if l >= ClassCount {
			return nil, fmt.Errorf("%s: label %d out of range: %d", path, i, l)
		}
	}
	return labels, nil
}
