// Package autosave debounces persistence calls triggered by edits. A burst
// of rapid edits results in a single save carrying the latest state, while
// an edit after a quiet period saves immediately.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/mapsketch/mapsketch/internal/logging"
)

// timeNow is a test seam.
var timeNow = time.Now

// SaveFunc persists the current document state. It must read that state at
// call time, not capture it earlier, so coalesced edits are not lost.
type SaveFunc func(ctx context.Context) error

const saveTimeout = 30 * time.Second

// Scheduler is a two-state debouncer: idle, or armed with exactly one
// pending timer. An edit during the cool-down re-arms the timer for the
// remaining interval instead of stacking a second one; an edit after the
// cool-down saves without delay.
//
// NoteEdit never invokes SaveFunc on the caller's goroutine: even a due save
// is dispatched through a zero-delay timer. Callers may therefore hold locks
// that SaveFunc itself acquires. Flush is the exception and runs SaveFunc
// synchronously.
//
// Save failures are logged and reported through the error callback, and are
// never retried: the next edit (or an explicit Flush) tries again.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	save     SaveFunc
	log      logging.Logger
	onError  func(error)

	lastSave time.Time
	timer    *time.Timer // non-nil exactly when armed
	stopped  bool
}

// New builds a Scheduler. Creation counts as the last completed save, so the
// very first edit is debounced rather than saved immediately.
func New(interval time.Duration, save SaveFunc, log logging.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		save:     save,
		log:      log.With("module", "autosave"),
		lastSave: timeNow(),
	}
}

// SetOnError registers a callback invoked with every save failure.
func (s *Scheduler) SetOnError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// NoteEdit records an edit and arms a save timer per the debounce contract.
// A due save is armed with zero delay.
func (s *Scheduler) NoteEdit() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	remaining := s.interval - timeNow().Sub(s.lastSave)
	if remaining < 0 {
		remaining = 0
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(remaining, s.fire)
	s.mu.Unlock()
}

// NoteSaved records that the document was just persisted outside the
// scheduler (an explicit save, or a load of an already-persisted document)
// and cancels any pending timer: the edits it covered no longer need saving.
func (s *Scheduler) NoteSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.lastSave = timeNow()
}

// Armed reports whether a save timer is currently pending.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Flush cancels any pending timer and saves right now, synchronously. Used
// on logout and shutdown so pending edits are not lost.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	stopped := s.stopped
	s.mu.Unlock()
	if !stopped {
		s.runSave()
	}
}

// Stop cancels any pending timer and disables further scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	stopped := s.stopped
	s.mu.Unlock()
	if !stopped {
		s.runSave()
	}
}

func (s *Scheduler) runSave() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := s.save(ctx)

	s.mu.Lock()
	s.lastSave = timeNow()
	onError := s.onError
	s.mu.Unlock()

	if err != nil {
		s.log.Error(ctx, "autosave failed", "error", err)
		if onError != nil {
			onError(err)
		}
	}
}
