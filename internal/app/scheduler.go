package app

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long after the last pen-up the inference
// pipeline fires. Multi-stroke digits drawn within this window are
// batched into a single prediction.
const DefaultQuietPeriod = 200 * time.Millisecond

// Scheduler debounces a callback: every Trigger restarts the quiet
// period, and the callback runs once when it elapses undisturbed. A new
// trigger supersedes a pending run but never interrupts one already
// executing.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

// NewScheduler creates a scheduler that invokes fn after delay of quiet.
func NewScheduler(delay time.Duration, fn func()) *Scheduler {
	return &Scheduler{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period. The callback runs on a timer
// goroutine once no further triggers arrive for the full delay.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fn)
}

// Stop cancels any pending run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
