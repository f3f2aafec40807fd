package polling

import (
	"sync"
	"time"
)

// Handle identifies a scheduled recurring callback. The zero Handle is
// never issued.
type Handle uint64

// Scheduler is the host timer facility.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) Handle
	// Cancel stops the callback. Cancelling an unknown or already
	// cancelled handle does nothing.
	Cancel(handle Handle)
}

// TickerScheduler runs each callback on its own ticker goroutine.
type TickerScheduler struct {
	mu     sync.Mutex
	next   Handle
	timers map[Handle]chan struct{}
}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{timers: map[Handle]chan struct{}{}}
}

func (s *TickerScheduler) Schedule(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	stop := make(chan struct{})

	s.mu.Lock()
	s.next++
	handle := s.next
	s.timers[handle] = stop
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				if fn != nil {
					fn()
				}
			}
		}
	}()
	return handle
}

func (s *TickerScheduler) Cancel(handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop, ok := s.timers[handle]
	if !ok {
		return
	}
	delete(s.timers, handle)
	close(stop)
}

// Live reports how many callbacks are still scheduled.
func (s *TickerScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
