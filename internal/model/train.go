package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"digit-sketch/internal/mnist"
)

// TrainConfig controls the SGD fit loop.
type TrainConfig struct {
	Arch         string
	Hidden       int
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

// DefaultTrainConfig returns sensible settings for the given architecture.
func DefaultTrainConfig(arch string) TrainConfig {
	return TrainConfig{
		Arch:         arch,
		Hidden:       HiddenSize,
		Epochs:       5,
		BatchSize:    32,
		LearningRate: 0.1,
		Seed:         1,
	}
}

// Progress reports per-epoch training state: average cross-entropy loss
// over the epoch and accuracy on the held-out test set.
type Progress func(epoch int, loss, testAccuracy float64)

// Train fits a new network on the training set with mini-batch SGD and
// evaluates it on the test set after every epoch. The progress callback
// may be nil.
func Train(cfg TrainConfig, train, test *mnist.Set, progress Progress) (*Network, error) {
	if train == nil || train.Len() == 0 {
		return nil, fmt.Errorf("model: empty training set")
	}
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("model: epochs must be positive")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	net, err := New(cfg.Arch, cfg.Hidden, rnd)
	if err != nil {
		return nil, err
	}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		train.Shuffle(rnd)

		var lossSum float64
		for start := 0; start < train.Len(); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > train.Len() {
				end = train.Len()
			}
			lossSum += net.trainBatch(train, start, end, cfg.LearningRate)
		}

		loss := lossSum / float64(train.Len())
		acc := math.NaN()
		if test != nil && test.Len() > 0 {
			acc = Evaluate(net, test)
		}
		if progress != nil {
			progress(epoch, loss, acc)
		}
	}
	return net, nil
}

// trainBatch accumulates gradients over samples [start, end) and applies
// one SGD step. Returns the summed cross-entropy loss of the batch.
func (n *Network) trainBatch(set *mnist.Set, start, end int, lr float64) float64 {
	layers := len(n.weights)
	gradW := make([]*mat.Dense, layers)
	gradB := make([]*mat.VecDense, layers)
	for i := range n.weights {
		r, c := n.weights[i].Dims()
		gradW[i] = mat.NewDense(r, c, nil)
		gradB[i] = mat.NewVecDense(r, nil)
	}

	var loss float64
	for i := start; i < end; i++ {
		input := mat.NewVecDense(InputLen, set.Vector(i))
		label := int(set.Labels[i])
		loss += n.backprop(input, label, gradW, gradB)
	}

	step := lr / float64(end-start)
	for i := range n.weights {
		gradW[i].Scale(step, gradW[i])
		n.weights[i].Sub(n.weights[i], gradW[i])
		gradB[i].ScaleVec(step, gradB[i])
		n.biases[i].SubVec(n.biases[i], gradB[i])
	}
	return loss
}

// backprop runs one forward/backward pass and adds the sample's
// gradients into gradW/gradB. Softmax with cross-entropy gives the
// output delta p - onehot(label) directly.
func (n *Network) backprop(input *mat.VecDense, label int, gradW []*mat.Dense, gradB []*mat.VecDense) float64 {
	acts, zs := n.forward(input)
	probs := acts[len(acts)-1]

	p := probs.AtVec(label)
	if p < 1e-12 {
		p = 1e-12
	}
	loss := -math.Log(p)

	// Output delta.
	delta := mat.NewVecDense(ClassCount, nil)
	delta.CopyVec(probs)
	delta.SetVec(label, delta.AtVec(label)-1)

	for layer := len(n.weights) - 1; layer >= 0; layer-- {
		// dW += delta * a_prev^T, dB += delta.
		gradW[layer].RankOne(gradW[layer], 1, delta, acts[layer])
		gradB[layer].AddVec(gradB[layer], delta)

		if layer == 0 {
			break
		}

		// Propagate through the weights and the ReLU derivative.
		prev := mat.NewVecDense(n.Sizes[layer], nil)
		prev.MulVec(n.weights[layer].T(), delta)
		z := zs[layer-1]
		for i := 0; i < prev.Len(); i++ {
			if z.AtVec(i) <= 0 {
				prev.SetVec(i, 0)
			}
		}
		delta = prev
	}
	return loss
}

// Evaluate returns the network's accuracy on a labeled set.
func Evaluate(n *Network, set *mnist.Set) float64 {
	if set.Len() == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < set.Len(); i++ {
		probs, err := n.Predict(set.Vector(i))
		if err != nil {
			continue
		}
		class, _ := Argmax(probs)
		if class == int(set.Labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(set.Len())
}
