package stream_test

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/streamkit/pkg/stream"
)

// cancelling records values and cancels its subscription after limit values.
type cancelling[T any, E error] struct {
	limit  int
	sub    stream.Subscription
	values []T
	done   []stream.Completion[E]
}

func (c *cancelling[T, E]) OnSubscribe(s stream.Subscription) { c.sub = s }

func (c *cancelling[T, E]) Receive(v T) {
	c.values = append(c.values, v)
	if len(c.values) == c.limit {
		c.sub.Cancel()
	}
}

func (c *cancelling[T, E]) ReceiveCompletion(comp stream.Completion[E]) {
	c.done = append(c.done, comp)
}

type mockSubscriber[T any, E error] struct {
	mock.Mock
}

func (m *mockSubscriber[T, E]) OnSubscribe(s stream.Subscription) {
	m.Called(s)
}

func (m *mockSubscriber[T, E]) Receive(v T) {
	m.Called(v)
}

func (m *mockSubscriber[T, E]) ReceiveCompletion(c stream.Completion[E]) {
	m.Called(c)
}

// journal is a concurrency-safe ordered log of delivery events.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}
