package services

import (
	"sync"
	"time"
)

// spinScheduler runs at most one pending deferred commit. The timer lives in
// this process only: if the process dies while a spin is pending, the commit
// never fires and the round stays in Spinning until an operator resets it.
type spinScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms the timer, replacing any pending callback.
func (s *spinScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending callback, if any, and reports whether one was
// pending.
func (s *spinScheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}
