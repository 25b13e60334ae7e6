package pipeline

import (
	"sync"
	"time"

	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/venue"
)

// DebounceInterval batches bursts of edits into one re-layout.
const DebounceInterval = 50 * time.Millisecond

// Scheduler re-realizes a section store after edits, debounced so a
// burst of mutations produces a single layout pass.
//
// The editor suppresses the scheduler while a drag is in flight: the
// live preview during a drag is a transient transform on the last
// realized commands, and realizing mid-gesture would fight it. Deferred
// category sweeps run at the start of each tick, so an orphaned
// category survives exactly until the next realization.
type Scheduler struct {
	store    *venue.Store
	viewport geometry.Rect
	deliver  func([]layout.Command, venue.Snapshot)

	mu         sync.Mutex
	timer      *time.Timer
	suppressed bool
	pending    bool
	closed     bool
}

// NewScheduler creates a scheduler over the given store. deliver is
// called with the realized commands and the snapshot they were built
// from; it runs on the scheduler's timer goroutine.
func NewScheduler(store *venue.Store, viewport geometry.Rect, deliver func([]layout.Command, venue.Snapshot)) *Scheduler {
	return &Scheduler{
		store:    store,
		viewport: viewport,
		deliver:  deliver,
	}
}

// Invalidate requests a re-layout. Calls within the debounce window
// collapse into one tick.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.suppressed {
		s.pending = true
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(DebounceInterval, s.tick)
}

// Suppress pauses realization for the duration of a drag gesture.
// Invalidations arriving while suppressed are remembered and flushed by
// Resume.
func (s *Scheduler) Suppress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.pending = true
	}
}

// Resume lifts suppression and schedules a tick if edits arrived while
// suppressed.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed = false
	if s.pending && !s.closed {
		s.pending = false
		s.timer = time.AfterFunc(DebounceInterval, s.tick)
	}
}

// Flush realizes immediately, bypassing the debounce window. Used for
// the initial draw and by tests.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.realize()
}

// Close stops the scheduler. A tick already in flight may still
// deliver.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.closed || s.suppressed {
		if s.suppressed {
			s.pending = true
		}
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()
	s.realize()
}

func (s *Scheduler) realize() {
	s.store.Sweep()
	snap := s.store.Snapshot()
	cmds := layout.Layout(snap, s.viewport)
	if s.deliver != nil {
		s.deliver(cmds, snap)
	}
}
