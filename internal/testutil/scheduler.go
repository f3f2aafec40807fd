package testutil

import (
	"sort"
	"sync"
	"time"

	"controlui/internal/polling"
)

// FakeScheduler records scheduling calls and fires callbacks on demand.
type FakeScheduler struct {
	mu        sync.Mutex
	next      polling.Handle
	live      map[polling.Handle]fakeTimer
	Scheduled int
	Cancelled int
}

type fakeTimer struct {
	interval time.Duration
	fn       func()
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{live: map[polling.Handle]fakeTimer{}}
}

func (s *FakeScheduler) Schedule(interval time.Duration, fn func()) polling.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.live[s.next] = fakeTimer{interval: interval, fn: fn}
	s.Scheduled++
	return s.next
}

func (s *FakeScheduler) Cancel(handle polling.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[handle]; !ok {
		return
	}
	delete(s.live, handle)
	s.Cancelled++
}

// Live returns the handles still scheduled, ascending.
func (s *FakeScheduler) Live() []polling.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]polling.Handle, 0, len(s.live))
	for handle := range s.live {
		out = append(out, handle)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *FakeScheduler) Interval(handle polling.Handle) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[handle].interval
}

// Fire runs the callback for handle once. It reports false for handles
// that are not live.
func (s *FakeScheduler) Fire(handle polling.Handle) bool {
	s.mu.Lock()
	timer, ok := s.live[handle]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if timer.fn != nil {
		timer.fn()
	}
	return true
}

// FireAll runs every live callback once.
func (s *FakeScheduler) FireAll() {
	for _, handle := range s.Live() {
		s.Fire(handle)
	}
}
