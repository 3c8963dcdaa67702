package app

import (
	"fmt"

	"digit-sketch/internal/mnist"
	"digit-sketch/internal/model"
)

// TrainingUpdate is the payload of EventTrainingProgress.
type TrainingUpdate struct {
	Arch     string
	Epoch    int
	Epochs   int
	Loss     float64
	Accuracy float64
	Done     bool
}

// TrainAndSave trains the named architecture on the MNIST files in
// dataDir, saves it to the model store under its key, and installs it
// as the active classifier. Progress is emitted per epoch for the plot
// panel. Blocking; callers run it off the UI thread.
func (s *State) TrainAndSave(arch, dataDir string) error {
	s.Status(fmt.Sprintf("Loading MNIST from %s", dataDir))
	train, test, err := mnist.Load(dataDir)
	if err != nil {
		s.Status(fmt.Sprintf("MNIST load failed: %v", err))
		return err
	}
	s.Status(fmt.Sprintf("Training %s on %d samples", arch, train.Len()))

	cfg := model.DefaultTrainConfig(arch)
	net, err := model.Train(cfg, train, test, func(epoch int, loss, acc float64) {
		s.Status(fmt.Sprintf("Epoch %d/%d: loss=%.4f accuracy=%.2f%%",
			epoch, cfg.Epochs, loss, acc*100))
		s.Emit(EventTrainingProgress, TrainingUpdate{
			Arch:     arch,
			Epoch:    epoch,
			Epochs:   cfg.Epochs,
			Loss:     loss,
			Accuracy: acc,
			Done:     epoch == cfg.Epochs,
		})
	})
	if err != nil {
		s.Status(fmt.Sprintf("Training failed: %v", err))
		return err
	}

	if err := model.Save(net, arch); err != nil {
		s.Status(fmt.Sprintf("Saving model %q failed: %v", arch, err))
		return err
	}
	s.SetModel(net, arch)
	s.Status(fmt.Sprintf("Model %q trained and saved", arch))
	return nil
}
