package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// OverflowPolicy controls what a Stream does when its buffer is full.
type OverflowPolicy uint8

const (
	// DropNewest drops the incoming value when the buffer is full.
	// The producer is never blocked.
	DropNewest OverflowPolicy = iota

	// DropOldest evicts the oldest buffered value to make room for the incoming one.
	// The producer is never blocked.
	DropOldest

	// Block blocks the producer until the consumer reads or the stream is closed.
	Block
)

func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop_newest"
	case DropOldest:
		return "drop_oldest"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("overflow_policy(%d)", uint8(p))
	}
}

const defaultStreamBufferSize = 64

// ValuesOption configures Values.
type ValuesOption func(*valuesConfig)

type valuesConfig struct {
	bufferSize int
	policy     OverflowPolicy
}

// WithBufferSize sets the channel buffer size. Negative sizes are treated as zero.
func WithBufferSize(n int) ValuesOption {
	return func(c *valuesConfig) {
		c.bufferSize = max(n, 0)
	}
}

// WithOverflowPolicy sets the overflow policy.
func WithOverflowPolicy(p OverflowPolicy) ValuesOption {
	return func(c *valuesConfig) {
		c.policy = p
	}
}

// Stream exposes a publisher as a Go channel with bounded buffering.
// All methods are safe for concurrent use.
type Stream[T any, E error] struct {
	ch         chan T
	done       chan struct{}
	policy     OverflowPolicy
	upstream   slot
	mu         sync.RWMutex
	closed     bool
	completion *Completion[E]
	drops      atomic.Uint64
	doneOnce   sync.Once
}

// Values subscribes to pub and returns a Stream that buffers its values.
//
// The subscription is made on a new goroutine, so synchronous publishers can feed
// a Block stream whose consumer starts reading after Values returns. The stream is
// closed when the publisher terminates, when ctx is done, or on Close.
func Values[T any, E error](ctx context.Context, pub Publisher[T, E], opts ...ValuesOption) *Stream[T, E] {
	if pub == nil {
		panic(ErrNilPublisher)
	}
	cfg := valuesConfig{bufferSize: defaultStreamBufferSize, policy: DropNewest}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := &Stream[T, E]{
		ch:     make(chan T, cfg.bufferSize),
		done:   make(chan struct{}),
		policy: cfg.policy,
	}

	go func() {
		pub.Subscribe(s)
	}()

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Close()
			case <-s.done:
			}
		}()
	}

	return s
}

// C returns the channel of values. It is closed when the stream ends; buffered
// values remain readable.
func (s *Stream[T, E]) C() <-chan T {
	return s.ch
}

// Done is closed when the stream ends.
func (s *Stream[T, E]) Done() <-chan struct{} {
	return s.done
}

// Completion returns the terminal event, if the publisher delivered one.
func (s *Stream[T, E]) Completion() (Completion[E], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.completion == nil {
		return Completion[E]{}, false
	}
	return *s.completion, true
}

// Err returns the failure and true if the publisher failed.
func (s *Stream[T, E]) Err() (E, bool) {
	c, ok := s.Completion()
	if !ok || !c.Failed() {
		var zero E
		return zero, false
	}
	return c.Err(), true
}

// Drops returns the number of values dropped by the overflow policy.
func (s *Stream[T, E]) Drops() uint64 {
	return s.drops.Load()
}

// Close cancels the subscription and closes the channel. It is idempotent.
func (s *Stream[T, E]) Close() {
	s.upstream.Cancel()
	s.shutdown(nil)
}

func (s *Stream[T, E]) shutdown(c *Completion[E]) {
	// Unblock producers waiting under the Block policy before taking the write lock.
	s.doneOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.completion = c
	close(s.ch)
}

func (s *Stream[T, E]) OnSubscribe(sub Subscription) {
	s.upstream.set(sub)
}

func (s *Stream[T, E]) Receive(v T) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	switch s.policy {
	case Block:
		select {
		case s.ch <- v:
		case <-s.done:
			s.drops.Add(1)
		}

	case DropOldest:
		select {
		case s.ch <- v:
			return
		default:
		}
		select {
		case <-s.ch:
			s.drops.Add(1)
		default:
		}
		select {
		case s.ch <- v:
		default:
			s.drops.Add(1)
		}

	default:
		select {
		case s.ch <- v:
		default:
			s.drops.Add(1)
		}
	}
}

func (s *Stream[T, E]) ReceiveCompletion(c Completion[E]) {
	s.shutdown(&c)
}
