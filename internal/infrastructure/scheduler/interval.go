package scheduler

import (
	"context"
	"sync"
	"time"

	"BacBoScanner/internal/ports"
)

// IntervalScheduler fires a job on a fixed interval. The job runs
// synchronously inside the loop goroutine, so a slow cycle simply delays
// the next tick instead of overlapping it; the browser session cannot serve
// two cycles at once. Start and Stop may be called from concurrent HTTP
// handlers.
type IntervalScheduler struct {
	every time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given period.
func NewIntervalScheduler(every time.Duration) *IntervalScheduler {
	if every <= 0 {
		every = 5 * time.Second
	}
	return &IntervalScheduler{every: every}
}

// Start runs the job once immediately and then on every tick until Stop or
// context cancellation.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the loop goroutine.
func (s *IntervalScheduler) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
