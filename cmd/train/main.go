// Command train fits the digit classifiers on MNIST and saves them to
// the model store used by the Digit Sketch application.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"digit-sketch/internal/mnist"
	"digit-sketch/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dataDir := flag.String("data", "", "directory with the four MNIST .gz files (required)")
	arch := flag.String("arch", "", "architecture to train: "+model.ArchLinear+" or "+model.ArchMLP+" (default: both)")
	epochs := flag.Int("epochs", 5, "training epochs")
	batch := flag.Int("batch", 32, "mini-batch size")
	rate := flag.Float64("rate", 0.1, "learning rate")
	hidden := flag.Int("hidden", model.HiddenSize, "hidden layer width for "+model.ArchMLP)
	seed := flag.Int64("seed", 1, "random seed")
	force := flag.Bool("force", false, "retrain even when a saved model exists")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	archs := []string{model.ArchLinear, model.ArchMLP}
	if *arch != "" {
		archs = []string{*arch}
	}

	log.Printf("Loading MNIST from %s", *dataDir)
	train, test, err := mnist.Load(*dataDir)
	if err != nil {
		log.Fatalf("Loading MNIST failed: %v", err)
	}
	log.Printf("Loaded %d training and %d test samples", train.Len(), test.Len())

	for _, a := range archs {
		if err := trainOne(a, train, test, *epochs, *batch, *rate, *hidden, *seed, *force); err != nil {
			log.Fatalf("%s: %v", a, err)
		}
	}
}

// trainOne trains and saves a single architecture. An existing saved
// model is reused unless -force is given; a corrupt or missing file
// falls through to retraining.
func trainOne(arch string, train, test *mnist.Set, epochs, batch int, rate float64, hidden int, seed int64, force bool) error {
	if !force {
		if net, err := model.Load(arch); err == nil {
			acc := model.Evaluate(net, test)
			log.Printf("%s: cached model found (accuracy %.2f%%), use -force to retrain", arch, acc*100)
			return nil
		} else if !errors.Is(err, model.ErrNotFound) {
			log.Printf("%s: cached model unusable (%v), retraining", arch, err)
		}
	}

	cfg := model.TrainConfig{
		Arch:         arch,
		Hidden:       hidden,
		Epochs:       epochs,
		BatchSize:    batch,
		LearningRate: rate,
		Seed:         seed,
	}

	log.Printf("Training %s (%d epochs, batch %d, rate %g)", arch, epochs, batch, rate)
	net, err := model.Train(cfg, train, test, func(epoch int, loss, acc float64) {
		fmt.Printf("%s epoch %d/%d: loss=%.4f test accuracy=%.2f%%\n",
			arch, epoch, epochs, loss, acc*100)
	})
	if err != nil {
		return err
	}

	if err := model.Save(net, arch); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Printf("%s: saved", arch)
	return nil
}
