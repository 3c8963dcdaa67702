package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// ErrNotFound is returned by Load when no model is saved under the key.
// Callers treat it as "no cached model" and fall back to training.
var ErrNotFound = errors.New("model: not found")

// modelFile is the on-disk JSON representation of a trained network.
type modelFile struct {
	Arch    string      `json:"arch"`
	Sizes   []int       `json:"sizes"`
	Weights [][]float64 `json:"weights"` // row-major per layer
	Biases  [][]float64 `json:"biases"`
}

// StoreDir returns the directory models are saved in, creating it if
// needed: <user config dir>/digit-sketch.
func StoreDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	dir := filepath.Join(configDir, "digit-sketch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Save writes the network to the store under the given key.
func Save(n *Network, key string) error {
	dir, err := StoreDir()
	if err != nil {
		return err
	}
	return SaveFile(n, filepath.Join(dir, key+".json"))
}

// Load reads a network from the store by key. Returns ErrNotFound when
// the key has never been saved.
func Load(key string) (*Network, error) {
	dir, err := StoreDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, key+".json"))
}

// SaveFile writes the network as JSON to an explicit path.
func SaveFile(n *Network, path string) error {
	mf := modelFile{Arch: n.Arch, Sizes: n.Sizes}
	for i, w := range n.weights {
		raw := w.RawMatrix()
		weights := make([]float64, len(raw.Data))
		copy(weights, raw.Data)
		mf.Weights = append(mf.Weights, weights)

		bias := make([]float64, n.biases[i].Len())
		copy(bias, n.biases[i].RawVector().Data)
		mf.Biases = append(mf.Biases, bias)
	}

	data, err := json.Marshal(mf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a network from an explicit JSON path.
func LoadFile(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(mf.Sizes) < 2 || len(mf.Weights) != len(mf.Sizes)-1 || len(mf.Biases) != len(mf.Weights) {
		return nil, fmt.Errorf("%s: malformed model file", path)
	}

	n := &Network{Arch: mf.Arch, Sizes: mf.Sizes}
	for i := 0; i < len(mf.Sizes)-1; i++ {
		in, out := mf.Sizes[i], mf.Sizes[i+1]
		if len(mf.Weights[i]) != in*out || len(mf.Biases[i]) != out {
			return nil, fmt.Errorf("%s: layer %d dimension mismatch", path, i)
		}
		n.weights = append(n.weights, mat.NewDense(out, in, mf.Weights[i]))
		n.biases = append(n.biases, mat.NewVecDense(out, mf.Biases[i]))
	}
	return n, nil
}
