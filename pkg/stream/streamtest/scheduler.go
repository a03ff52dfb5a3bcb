package streamtest

import (
	"sync"
	"time"

	"github.com/dmitrymomot/streamkit/pkg/stream"
)

type task struct {
	due       time.Time
	seq       int
	fn        func()
	cancelled bool
}

// TestScheduler is a stream.Scheduler driven by a virtual clock.
// Nothing runs until Advance or Flush is called.
type TestScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*task
}

// NewTestScheduler returns a scheduler whose clock starts at start.
func NewTestScheduler(start time.Time) *TestScheduler {
	return &TestScheduler{now: start}
}

func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *TestScheduler) Schedule(fn func()) {
	s.add(0, fn)
}

func (s *TestScheduler) ScheduleAfter(d time.Duration, fn func()) stream.Subscription {
	t := s.add(d, fn)
	return stream.NewCancellable(func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	})
}

func (s *TestScheduler) add(d time.Duration, fn func()) *task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &task{due: s.now.Add(max(d, 0)), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due in
// time order, including tasks scheduled by the tasks it runs.
func (s *TestScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := -1
		for i, t := range s.tasks {
			if t.cancelled || t.due.After(target) {
				continue
			}
			if next < 0 || t.due.Before(s.tasks[next].due) ||
				(t.due.Equal(s.tasks[next].due) && t.seq < s.tasks[next].seq) {
				next = i
			}
		}
		if next < 0 {
			s.now = target
			s.tasks = pruneCancelled(s.tasks)
			s.mu.Unlock()
			return
		}
		t := s.tasks[next]
		s.tasks = append(s.tasks[:next], s.tasks[next+1:]...)
		if t.due.After(s.now) {
			s.now = t.due
		}
		s.mu.Unlock()
		t.fn()
	}
}

// Flush runs every task that is already due.
func (s *TestScheduler) Flush() {
	s.Advance(0)
}

// Pending returns the number of tasks waiting to run.
func (s *TestScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func pruneCancelled(tasks []*task) []*task {
	out := tasks[:0]
	for _, t := range tasks {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

var _ stream.Scheduler = (*TestScheduler)(nil)
