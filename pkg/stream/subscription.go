package stream

import (
	"sync"
	"sync/atomic"
)

// Subscription is the live link between one publisher and one subscriber.
// Cancel is idempotent and may be called from inside a delivery callback.
// Once Cancel returns no further values are delivered to the subscriber.
type Subscription interface {
	Cancel()
}

// Cancellable is a Subscription backed by a teardown function that runs at most once.
type Cancellable struct {
	cancelled atomic.Bool
	fn        func()
}

// NewCancellable returns a Cancellable that calls fn on the first Cancel.
// A nil fn is allowed.
func NewCancellable(fn func()) *Cancellable {
	return &Cancellable{fn: fn}
}

// Cancel runs the teardown function once. Reentrant calls are no-ops.
func (c *Cancellable) Cancel() {
	if !c.cancelled.CompareAndSwap(false, true) {
		return
	}
	if c.fn != nil {
		c.fn()
	}
}

// Cancelled reports whether Cancel has been called.
func (c *Cancellable) Cancelled() bool {
	return c.cancelled.Load()
}

// Store hands the subscription to bag, which becomes responsible for cancelling it.
func (c *Cancellable) Store(bag *Bag) {
	bag.Add(c)
}

// Bag is an explicit owner of subscriptions.
// The zero value is ready to use. All methods are safe for concurrent use.
type Bag struct {
	mu        sync.Mutex
	items     []Subscription
	cancelled bool
}

// Add stores s. If the bag was already cancelled s is cancelled immediately.
func (b *Bag) Add(s Subscription) {
	if s == nil {
		return
	}
	b.mu.Lock()
	if b.cancelled {
		b.mu.Unlock()
		s.Cancel()
		return
	}
	b.items = append(b.items, s)
	b.mu.Unlock()
}

// Len returns the number of stored subscriptions.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Cancel cancels every stored subscription in insertion order.
// Subscriptions added afterwards are cancelled on Add.
func (b *Bag) Cancel() {
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.cancelled = true
	b.mu.Unlock()

	for _, s := range items {
		s.Cancel()
	}
}

// slot holds one upstream subscription that may arrive after cancellation was requested.
// set replaces the held subscription, which lets timers re-arm through the same slot.
type slot struct {
	mu        sync.Mutex
	sub       Subscription
	cancelled bool
}

func (s *slot) set(sub Subscription) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

func (s *slot) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}
