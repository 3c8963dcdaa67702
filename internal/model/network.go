// Package model implements the digit classifiers: small feedforward
// networks trained on MNIST, with JSON persistence keyed by name.
package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	// InputLen is the flattened 28x28 input size.
	InputLen = 784
	// ClassCount is the number of digit classes.
	ClassCount = 10
	// HiddenSize is the default hidden layer width for the MLP.
	HiddenSize = 128
)

// Architecture names. They double as the fixed model store keys.
const (
	ArchLinear = "digit-linear" // softmax regression, 784 -> 10
	ArchMLP    = "digit-mlp"    // 784 -> hidden (ReLU) -> 10
)

// Classifier turns an encoded input vector into a probability
// distribution over the ten digit classes.
type Classifier interface {
	Predict(vec []float64) ([ClassCount]float64, error)
}

// Network is a fully-connected feedforward network with a softmax
// output. Weights[i] has dimensions Sizes[i+1] x Sizes[i].
type Network struct {
	Arch    string
	Sizes   []int
	weights []*mat.Dense
	biases  []*mat.VecDense
}

var _ Classifier = (*Network)(nil)

// New creates an untrained network for the named architecture.
// Weights are initialized with scaled Gaussian noise (LeCun style),
// biases with zero.
func New(arch string, hidden int, rnd *rand.Rand) (*Network, error) {
	var sizes []int
	switch arch {
	case ArchLinear:
		sizes = []int{InputLen, ClassCount}
	case ArchMLP:
		if hidden <= 0 {
			hidden = HiddenSize
		}
		sizes = []int{InputLen, hidden, ClassCount}
	default:
		return nil, fmt.Errorf("model: unknown architecture %q", arch)
	}

	n := &Network{Arch: arch, Sizes: sizes}
	for i := 0; i < len(sizes)-1; i++ {
		in, out := sizes[i], sizes[i+1]
		scale := 1.0 / math.Sqrt(float64(in))
		w := mat.NewDense(out, in, nil)
		for r := 0; r < out; r++ {
			for c := 0; c < in; c++ {
				w.Set(r, c, rnd.NormFloat64()*scale)
			}
		}
		n.weights = append(n.weights, w)
		n.biases = append(n.biases, mat.NewVecDense(out, nil))
	}
	return n, nil
}

// Predict runs a forward pass and returns the class probabilities.
func (n *Network) Predict(vec []float64) ([ClassCount]float64, error) {
	var out [ClassCount]float64
	if len(vec) != InputLen {
		return out, fmt.Errorf("model: input length %d, want %d", len(vec), InputLen)
	}
	acts, _ := n.forward(mat.NewVecDense(InputLen, vec))
	probs := acts[len(acts)-1]
	copy(out[:], probs.RawVector().Data)
	return out, nil
}

// Argmax returns the most likely class and its probability.
func Argmax(probs [ClassCount]float64) (int, float64) {
	best, bestP := 0, probs[0]
	for i, p := range probs {
		if p > bestP {
			best, bestP = i, p
		}
	}
	return best, bestP
}

// forward computes the activations of every layer. It returns the
// post-activation vectors (input first, softmax output last) and the
// pre-activation vectors per non-input layer, which training needs.
func (n *Network) forward(input *mat.VecDense) (acts []*mat.VecDense, zs []*mat.VecDense) {
	acts = []*mat.VecDense{input}
	a := input
	last := len(n.weights) - 1
	for i, w := range n.weights {
		z := mat.NewVecDense(n.Sizes[i+1], nil)
		z.MulVec(w, a)
		z.AddVec(z, n.biases[i])
		zs = append(zs, z)

		out := mat.NewVecDense(z.Len(), nil)
		if i == last {
			softmaxInto(out, z)
		} else {
			reluInto(out, z)
		}
		acts = append(acts, out)
		a = out
	}
	return acts, zs
}

// softmaxInto writes softmax(z) into dst, shifted by max(z) for
// numerical stability.
func softmaxInto(dst, z *mat.VecDense) {
	maxZ := math.Inf(-1)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > maxZ {
			maxZ = v
		}
	}
	sum := 0.0
	for i := 0; i < z.Len(); i++ {
		e := math.Exp(z.AtVec(i) - maxZ)
		dst.SetVec(i, e)
		sum += e
	}
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, dst.AtVec(i)/sum)
	}
}

func reluInto(dst, z *mat.VecDense) {
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > 0 {
			dst.SetVec(i, v)
		} else {
			dst.SetVec(i, 0)
		}
	}
}
