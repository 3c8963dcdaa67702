package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digit-sketch/internal/model"
	"digit-sketch/internal/preprocess"
)

func TestStateEventsFireOnDrawing(t *testing.T) {
	s := NewState()

	var changed, cleared int
	s.On(EventStrokesChanged, func(interface{}) { changed++ })
	s.On(EventCanvasCleared, func(interface{}) { cleared++ })

	s.PenDown(100, 100)
	s.PenMove(120, 110)
	s.PenMove(140, 130)
	s.PenUp()
	s.scheduler.Stop()

	assert.Equal(t, 3, changed)
	assert.Equal(t, 1, s.Session().StrokeCount())

	s.Clear()
	assert.Equal(t, 1, cleared)
	assert.Equal(t, 0, s.Session().StrokeCount())
}

func TestStateClearWipesSurface(t *testing.T) {
	s := NewState()
	s.PenDown(140, 140)
	s.PenUp()
	s.scheduler.Stop()

	_, err := preprocess.InkBounds(s.Surface().Raster())
	require.NoError(t, err)

	s.Clear()
	_, err = preprocess.InkBounds(s.Surface().Raster())
	assert.ErrorIs(t, err, preprocess.ErrBlankCanvas)
}

func newTestNetwork(t *testing.T, arch string, hidden int) *model.Network {
	t.Helper()
	net, err := model.New(arch, hidden, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return net
}

func TestPredictBlankCanvasClearsPrediction(t *testing.T) {
	s := NewState()
	s.SetModel(newTestNetwork(t, model.ArchLinear, 0), model.ArchLinear)

	var ready, cleared int
	s.On(EventPredictionReady, func(interface{}) { ready++ })
	s.On(EventPredictionCleared, func(interface{}) { cleared++ })

	s.Predict()
	assert.Equal(t, 0, ready)
	assert.Equal(t, 1, cleared)
}

func TestPredictEmitsDistribution(t *testing.T) {
	s := NewState()
	s.SetModel(newTestNetwork(t, model.ArchMLP, 16), model.ArchMLP)

	var got *Prediction
	s.On(EventPredictionReady, func(data interface{}) {
		p := data.(Prediction)
		got = &p
	})

	s.PenDown(100, 100)
	s.PenMove(180, 180)
	s.PenUp()
	s.scheduler.Stop()
	s.Predict()

	require.NotNil(t, got)
	assert.InDelta(t, got.Confidence, got.Probs[got.Class], 1e-12)

	sum := 0.0
	for _, p := range got.Probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	require.NotNil(t, got.Pipeline)
	b := got.Pipeline.Grid.Bounds()
	assert.Equal(t, preprocess.GridSize, b.Dx())
	assert.Equal(t, preprocess.GridSize, b.Dy())
}

func TestDrawingDuringInferenceIsSafe(t *testing.T) {
	s := NewState()
	s.SetModel(newTestNetwork(t, model.ArchLinear, 0), model.ArchLinear)

	s.PenDown(100, 100)
	s.PenUp()

	// Inference on one goroutine, strokes on another, the way the
	// debounce timer overlaps with continued multi-stroke drawing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.Predict()
		}
	}()
	for i := 0; i < 50; i++ {
		s.PenDown(float64(50+i), 60)
		s.PenMove(float64(60+i), float64(80+i))
		s.PenUp()
	}
	s.Clear()
	<-done
	s.scheduler.Stop()
}

func TestPredictWithoutModelReportsStatus(t *testing.T) {
	s := NewState()

	var status []string
	s.On(EventStatus, func(data interface{}) { status = append(status, data.(string)) })

	s.PenDown(100, 100)
	s.PenUp()
	s.scheduler.Stop()
	s.Predict()

	require.Len(t, status, 1)
	assert.Contains(t, status[0], "No model")
}
