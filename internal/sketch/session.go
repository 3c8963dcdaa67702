// Package sketch tracks freehand pen strokes for the drawing session.
package sketch

import (
	"digit-sketch/pkg/geometry"
)

// Stroke is an ordered sequence of points in canvas pixel space, in the
// order they were drawn. A stroke always contains at least one point and
// is not mutated after the pen is lifted.
type Stroke struct {
	Points []geometry.Point2D
}

// Len returns the number of points in the stroke.
func (s Stroke) Len() int {
	return len(s.Points)
}

// Session holds every stroke drawn since the last clear, plus the
// pen-down flag. All methods tolerate malformed event order: a move
// without a preceding pen-down is dropped rather than recorded.
type Session struct {
	strokes []Stroke
	drawing bool
}

// NewSession creates an empty drawing session.
func NewSession() *Session {
	return &Session{}
}

// StartStroke begins a new stroke at p. Starting while a stroke is
// already open simply leaves the previous stroke in place and opens a
// new one after it.
func (s *Session) StartStroke(p geometry.Point2D) {
	s.strokes = append(s.strokes, Stroke{Points: []geometry.Point2D{p}})
	s.drawing = true
}

// AddPoint appends p to the current stroke. Ignored when no stroke is
// open, so drag events that arrive before a pen-down are harmless.
func (s *Session) AddPoint(p geometry.Point2D) {
	if !s.drawing || len(s.strokes) == 0 {
		return
	}
	last := &s.strokes[len(s.strokes)-1]
	last.Points = append(last.Points, p)
}

// EndStroke closes the current stroke. Recorded strokes persist across
// pen-down/up cycles until Clear.
func (s *Session) EndStroke() {
	s.drawing = false
}

// Clear removes all strokes and closes any open stroke.
func (s *Session) Clear() {
	s.strokes = nil
	s.drawing = false
}

// IsDrawing reports whether a stroke is currently open.
func (s *Session) IsDrawing() bool {
	return s.drawing
}

// Strokes returns the recorded strokes in drawing order. The returned
// slice is shared with the session; callers must not modify it.
func (s *Session) Strokes() []Stroke {
	return s.strokes
}

// StrokeCount returns the number of recorded strokes.
func (s *Session) StrokeCount() int {
	return len(s.strokes)
}

// PointCount returns the total number of recorded points across all strokes.
func (s *Session) PointCount() int {
	n := 0
	for _, st := range s.strokes {
		n += len(st.Points)
	}
	return n
}
