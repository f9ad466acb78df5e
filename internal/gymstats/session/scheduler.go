package session

import (
	"sync"
	"time"
)

// Handle is an owned, cancellable periodic task.
type Handle interface {
	// Stop cancels the task. It never blocks, a callback already running may still finish.
	Stop()
}

type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

var _ Scheduler = (*TickerScheduler)(nil)

// TickerScheduler runs every task on its own time.Ticker goroutine.
type TickerScheduler struct{}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

func (s *TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{
		stop: make(chan struct{}),
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// stop wins over a tick that raced with it
				select {
				case <-h.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return h
}

type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		close(h.stop)
	})
}

var _ Scheduler = (*ManualScheduler)(nil)

// ManualScheduler is a fake clock: tasks fire only when Advance is called, synchronously
// on the caller's goroutine. Used in tests, and by hosts which drive time from their
// own loop.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	handles []*manualHandle
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualHandle struct {
	scheduler *ManualScheduler
	interval  time.Duration
	next      time.Duration
	fn        func()
	stopped   bool
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := &manualHandle{
		scheduler: s,
		interval:  interval,
		next:      s.now + interval,
		fn:        fn,
	}
	s.handles = append(s.handles, h)
	return h
}

func (h *manualHandle) Stop() {
	s := h.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.stopped {
		return
	}
	h.stopped = true
	for i, other := range s.handles {
		if other == h {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			break
		}
	}
}

// Advance moves the clock forward, firing every due task in time order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		var due *manualHandle
		for _, h := range s.handles {
			if h.next <= target && (due == nil || h.next < due.next) {
				due = h
			}
		}
		if due == nil {
			break
		}

		s.now = due.next
		due.next += due.interval
		fn := due.fn

		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// Live returns the number of tasks which have not been stopped.
func (s *ManualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
