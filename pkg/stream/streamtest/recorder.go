package streamtest

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/streamkit/pkg/stream"
)

// Recorder is a Subscriber that records every event it receives.
// It is safe for concurrent use.
type Recorder[T any, E error] struct {
	mu           sync.Mutex
	subscription stream.Subscription
	subscribes   int
	values       []T
	completions  []stream.Completion[E]
}

// NewRecorder constructs an empty Recorder.
func NewRecorder[T any, E error]() *Recorder[T, E] {
	return &Recorder[T, E]{}
}

// Record subscribes a new Recorder to pub.
func Record[T any, E error](pub stream.Publisher[T, E]) *Recorder[T, E] {
	r := NewRecorder[T, E]()
	pub.Subscribe(r)
	return r
}

func (r *Recorder[T, E]) OnSubscribe(s stream.Subscription) {
	r.mu.Lock()
	r.subscription = s
	r.subscribes++
	r.mu.Unlock()
}

func (r *Recorder[T, E]) Receive(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *Recorder[T, E]) ReceiveCompletion(c stream.Completion[E]) {
	r.mu.Lock()
	r.completions = append(r.completions, c)
	r.mu.Unlock()
}

// Cancel cancels the recorded subscription.
func (r *Recorder[T, E]) Cancel() {
	r.mu.Lock()
	s := r.subscription
	r.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

// Values returns a snapshot copy of the recorded values.
func (r *Recorder[T, E]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Completions returns every recorded completion. A well-behaved publisher
// delivers at most one.
func (r *Recorder[T, E]) Completions() []stream.Completion[E] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.completions)
}

// Completion returns the first completion, if any.
func (r *Recorder[T, E]) Completion() (stream.Completion[E], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.completions) == 0 {
		return stream.Completion[E]{}, false
	}
	return r.completions[0], true
}

// Finished reports whether the stream finished without failure.
func (r *Recorder[T, E]) Finished() bool {
	c, ok := r.Completion()
	return ok && !c.Failed()
}

// Failure returns the failure and true if the stream failed.
func (r *Recorder[T, E]) Failure() (E, bool) {
	c, ok := r.Completion()
	if !ok || !c.Failed() {
		var zero E
		return zero, false
	}
	return c.Err(), true
}

// Subscribes returns how many times OnSubscribe was called.
func (r *Recorder[T, E]) Subscribes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribes
}

// Reset clears recorded values and completions.
func (r *Recorder[T, E]) Reset() {
	r.mu.Lock()
	r.values = nil
	r.completions = nil
	r.mu.Unlock()
}
