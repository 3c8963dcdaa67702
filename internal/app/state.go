// Package app provides application state, events, and inference scheduling.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"digit-sketch/internal/model"
	"digit-sketch/internal/preprocess"
	"digit-sketch/internal/raster"
	"digit-sketch/internal/sketch"
	"digit-sketch/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventStrokesChanged EventType = iota
	EventCanvasCleared
	EventPredictionReady
	EventPredictionCleared
	EventModelChanged
	EventTrainingProgress
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Prediction is the payload of EventPredictionReady.
type Prediction struct {
	Probs      [model.ClassCount]float64
	Class      int
	Confidence float64
	// Intermediate rasters for the preview panels.
	Pipeline *preprocess.Result
}

// State holds the drawing session, the rendering surface, the active
// classifier, and the debounced inference scheduler. UI widgets observe
// it through events rather than polling.
type State struct {
	mu sync.RWMutex

	// renderMu serializes surface writes from the event thread with
	// the raster snapshot taken on the inference timer goroutine.
	renderMu sync.Mutex

	session  *sketch.Session
	surface  raster.Surface
	net      model.Classifier
	modelKey string

	scheduler *Scheduler

	listeners map[EventType][]EventListener
}

// NewState creates the application state with an empty session and a
// default-size drawing surface.
func NewState() *State {
	s := &State{
		session:   sketch.NewSession(),
		surface:   raster.NewRenderer(raster.DefaultSize, raster.DefaultSize),
		listeners: make(map[EventType][]EventListener),
	}
	s.scheduler = NewScheduler(DefaultQuietPeriod, s.Predict)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Session returns the drawing session.
func (s *State) Session() *sketch.Session {
	return s.session
}

// Surface returns the rendering surface.
func (s *State) Surface() raster.Surface {
	return s.surface
}

// PenDown starts a stroke at (x, y) and redraws.
func (s *State) PenDown(x, y float64) {
	s.session.StartStroke(geometry.NewPoint2D(x, y))
	s.redraw()
}

// PenMove extends the current stroke and redraws. A move without a
// preceding PenDown is ignored by the session.
func (s *State) PenMove(x, y float64) {
	s.session.AddPoint(geometry.NewPoint2D(x, y))
	s.redraw()
}

// PenUp ends the stroke and schedules an inference run after the quiet
// period. Rapid successive strokes collapse into a single run.
func (s *State) PenUp() {
	s.session.EndStroke()
	s.scheduler.Trigger()
}

// Clear wipes the session, the surface, and any pending inference.
func (s *State) Clear() {
	s.scheduler.Stop()
	s.session.Clear()
	s.renderMu.Lock()
	s.surface.DrawStrokes(nil)
	s.renderMu.Unlock()
	s.Emit(EventCanvasCleared, nil)
	s.Emit(EventPredictionCleared, nil)
}

func (s *State) redraw() {
	s.renderMu.Lock()
	s.surface.DrawStrokes(s.session.Strokes())
	s.renderMu.Unlock()
	s.Emit(EventStrokesChanged, nil)
}

// snapshotRaster deep-copies the current surface pixels. The inference
// pipeline runs on the copy, so strokes drawn while it works cannot
// mutate its input.
func (s *State) snapshotRaster() *image.RGBA {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	src := s.surface.Raster()
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// SetModel installs a trained classifier under its store key.
func (s *State) SetModel(net model.Classifier, key string) {
	s.mu.Lock()
	s.net = net
	s.modelKey = key
	s.mu.Unlock()
	s.Emit(EventModelChanged, key)
}

// ModelKey returns the key of the active model, or "" when none is loaded.
func (s *State) ModelKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelKey
}

// LoadModel fetches a model from the store and installs it. A missing
// key is reported through the status channel, never fatal: the app runs
// with an "untrained" badge until cmd/train has been used.
func (s *State) LoadModel(key string) error {
	net, err := model.Load(key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.Status(fmt.Sprintf("No trained model %q - run cmd/train first", key))
		} else {
			s.Status(fmt.Sprintf("Loading model %q failed: %v", key, err))
		}
		s.SetModel(nil, "")
		return err
	}
	s.SetModel(net, key)
	s.Status(fmt.Sprintf("Model %q loaded", key))
	return nil
}

// Predict runs the full crop -> resample -> encode -> classify pipeline
// on the current surface. A blank canvas or a missing model ends the run
// early with a status message instead of an error.
func (s *State) Predict() {
	result, err := preprocess.Run(s.snapshotRaster())
	if err != nil {
		if errors.Is(err, preprocess.ErrBlankCanvas) {
			s.Emit(EventPredictionCleared, nil)
			return
		}
		log.Printf("Pipeline failed: %v", err)
		return
	}

	s.mu.RLock()
	net := s.net
	s.mu.RUnlock()
	if net == nil {
		s.Status("No model loaded - drawing ignored")
		return
	}

	probs, err := net.Predict(result.Vector)
	if err != nil {
		log.Printf("Predict failed: %v", err)
		return
	}

	class, confidence := model.Argmax(probs)
	s.Emit(EventPredictionReady, Prediction{
		Probs:      probs,
		Class:      class,
		Confidence: confidence,
		Pipeline:   result,
	})
}

// Status emits a human-readable status line for the log panel.
func (s *State) Status(msg string) {
	log.Print(msg)
	s.Emit(EventStatus, msg)
}
