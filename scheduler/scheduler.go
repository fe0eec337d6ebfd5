package scheduler

import (
	"log"
	"sync"
	"time"
)

// Timer is a handle to a scheduled task
type Timer interface {
	Stop() bool
}

// Scheduler runs a task once after a fixed delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimerScheduler schedules tasks on the runtime timer wheel and keeps track
// of the ones still waiting so they can be dropped at shutdown
type TimerScheduler struct {
	mu      sync.Mutex
	pending map[*trackedTimer]struct{}
	stopped bool
}

type trackedTimer struct {
	timer *time.Timer
	owner *TimerScheduler
}

func (t *trackedTimer) Stop() bool {
	stopped := t.timer.Stop()
	t.owner.forget(t)
	return stopped
}

func NewScheduler() *TimerScheduler {
	return &TimerScheduler{
		pending: make(map[*trackedTimer]struct{}),
	}
}

// AfterFunc waits for d, then calls f in its own goroutine
func (s *TimerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracked := &trackedTimer{owner: s}
	if s.stopped {
		// Never fires; the process is going away.
		tracked.timer = time.NewTimer(d)
		tracked.timer.Stop()
		return tracked
	}

	tracked.timer = time.AfterFunc(d, func() {
		s.forget(tracked)
		f()
	})
	s.pending[tracked] = struct{}{}
	return tracked
}

// Pending returns how many tasks have not fired yet
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every waiting task and refuses new ones
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	dropped := 0
	for tracked := range s.pending {
		if tracked.timer.Stop() {
			dropped++
		}
		delete(s.pending, tracked)
	}
	s.mu.Unlock()

	log.Printf("Scheduler stopped, dropped %d pending task(s)", dropped)
}

func (s *TimerScheduler) forget(t *trackedTimer) {
	s.mu.Lock()
	delete(s.pending, t)
	s.mu.Unlock()
}
