package stream

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/streamkit/pkg/logger"
)

// Subject is a publisher that can also be fed externally and multicasts to its
// current subscribers. It is a Subscriber too, so it can relay another publisher.
type Subject[T any, E error] interface {
	Publisher[T, E]
	Subscriber[T, E]

	Send(T)
	SendCompletion(Completion[E])
}

// multicast holds the subscriber list and delivery loop shared by the subjects.
type multicast[T any, E error] struct {
	mu         sync.Mutex
	subs       []*link[T, E]
	completion *Completion[E]
	upstreams  []Subscription
	delivery   drainer
	log        *slog.Logger
}

// subscribe registers down. initial, when set, runs under the lock and returns a
// value to deliver before any later send.
func (m *multicast[T, E]) subscribe(down Subscriber[T, E], initial func() T) Subscription {
	l := newLink(down)
	l.start()
	if l.isDone() {
		return l
	}

	l.cancelled(func() { m.remove(l) })

	m.mu.Lock()
	if c := m.completion; c != nil {
		m.mu.Unlock()
		l.finish(*c)
		return l
	}
	if l.isDone() {
		m.mu.Unlock()
		return l
	}
	m.subs = append(m.subs, l)
	drain := false
	if initial != nil {
		v := initial()
		drain = m.delivery.enqueue(func() { l.send(v) })
	}
	m.mu.Unlock()

	if drain {
		m.delivery.drain()
	}
	return l
}

func (m *multicast[T, E]) remove(l *link[T, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.subs, l); i >= 0 {
		m.subs = slices.Delete(m.subs, i, i+1)
	}
}

// send delivers v to a snapshot of the current subscribers. update, when set,
// runs under the lock before the snapshot is taken.
func (m *multicast[T, E]) send(v T, update func()) {
	m.mu.Lock()
	if m.completion != nil {
		m.mu.Unlock()
		m.logs().Debug("value sent after completion dropped", logger.Event("send"))
		return
	}
	if update != nil {
		update()
	}
	if len(m.subs) == 0 {
		m.mu.Unlock()
		return
	}
	subs := slices.Clone(m.subs)
	drain := m.delivery.enqueue(func() {
		for _, l := range subs {
			l.send(v)
		}
	})
	m.mu.Unlock()

	if !drain {
		m.logs().Debug("send deferred behind in-progress delivery",
			logger.Event("send"),
			logger.Count(len(subs)),
		)
		return
	}
	m.delivery.drain()
}

func (m *multicast[T, E]) complete(c Completion[E]) {
	m.mu.Lock()
	if m.completion != nil {
		m.mu.Unlock()
		return
	}
	m.completion = &c
	subs := m.subs
	m.subs = nil
	ups := m.upstreams
	m.upstreams = nil
	drain := m.delivery.enqueue(func() {
		for _, l := range subs {
			l.finish(c)
		}
	})
	m.mu.Unlock()

	for _, u := range ups {
		u.Cancel()
	}
	if drain {
		m.delivery.drain()
	}
}

func (m *multicast[T, E]) relay(s Subscription) {
	m.mu.Lock()
	if m.completion != nil {
		m.mu.Unlock()
		s.Cancel()
		return
	}
	m.upstreams = append(m.upstreams, s)
	m.mu.Unlock()
}

func (m *multicast[T, E]) logs() *slog.Logger {
	if m.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.log
}

func (m *multicast[T, E]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// PassthroughSubject multicasts every sent value to the subscribers attached at
// send time, synchronously and in subscription order. Values sent while nobody is
// subscribed are dropped.
//
// After SendCompletion, Send is a no-op and new subscribers receive the stored
// completion immediately.
//
// A Send that happens while the subject is already delivering, either from a
// subscriber callback or from another goroutine, is queued. The delivering caller
// replays queued values in FIFO order once the current value has reached every
// subscriber, and the queued Send returns without waiting.
type PassthroughSubject[T any, E error] struct {
	m multicast[T, E]
}

// NewPassthroughSubject creates a subject with no subscribers.
func NewPassthroughSubject[T any, E error](opts ...SubjectOption) *PassthroughSubject[T, E] {
	cfg := newSubjectConfig(opts)
	s := &PassthroughSubject[T, E]{}
	s.m.log = cfg.log.With(logger.Component("passthrough_subject"))
	return s
}

func (s *PassthroughSubject[T, E]) Subscribe(down Subscriber[T, E]) Subscription {
	return s.m.subscribe(down, nil)
}

// Send multicasts v.
func (s *PassthroughSubject[T, E]) Send(v T) {
	s.m.send(v, nil)
}

// SendCompletion delivers c to every subscriber and detaches them.
// Upstream publishers the subject relays are cancelled.
func (s *PassthroughSubject[T, E]) SendCompletion(c Completion[E]) {
	s.m.complete(c)
}

// Subscribers returns the number of attached subscribers.
func (s *PassthroughSubject[T, E]) Subscribers() int {
	return s.m.count()
}

func (s *PassthroughSubject[T, E]) OnSubscribe(sub Subscription) {
	s.m.relay(sub)
}

func (s *PassthroughSubject[T, E]) Receive(v T) {
	s.Send(v)
}

func (s *PassthroughSubject[T, E]) ReceiveCompletion(c Completion[E]) {
	s.SendCompletion(c)
}

// CurrentValueSubject is a PassthroughSubject that always holds a value.
// New subscribers receive the current value synchronously while subscribing,
// before any later send.
//
// A subscription made from inside one of the subject's own delivery callbacks
// follows the same queueing rule as a reentrant Send: Subscribe returns before
// the current value arrives, and the value is delivered once the in-progress
// delivery has finished, still ahead of any later send.
//
// After completion the value is frozen and Send is a no-op.
type CurrentValueSubject[T any, E error] struct {
	m     multicast[T, E]
	value T
}

// NewCurrentValueSubject creates a subject seeded with initial.
func NewCurrentValueSubject[T any, E error](initial T, opts ...SubjectOption) *CurrentValueSubject[T, E] {
	cfg := newSubjectConfig(opts)
	s := &CurrentValueSubject[T, E]{value: initial}
	s.m.log = cfg.log.With(logger.Component("current_value_subject"))
	return s
}

func (s *CurrentValueSubject[T, E]) Subscribe(down Subscriber[T, E]) Subscription {
	return s.m.subscribe(down, func() T { return s.value })
}

// Value returns the current value.
func (s *CurrentValueSubject[T, E]) Value() T {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.value
}

// Send stores v as the current value, then multicasts it.
func (s *CurrentValueSubject[T, E]) Send(v T) {
	s.m.send(v, func() { s.value = v })
}

// SetValue is equivalent to Send.
func (s *CurrentValueSubject[T, E]) SetValue(v T) {
	s.Send(v)
}

// SendCompletion delivers c to every subscriber and detaches them.
func (s *CurrentValueSubject[T, E]) SendCompletion(c Completion[E]) {
	s.m.complete(c)
}

// Subscribers returns the number of attached subscribers.
func (s *CurrentValueSubject[T, E]) Subscribers() int {
	return s.m.count()
}

func (s *CurrentValueSubject[T, E]) OnSubscribe(sub Subscription) {
	s.m.relay(sub)
}

func (s *CurrentValueSubject[T, E]) Receive(v T) {
	s.Send(v)
}

func (s *CurrentValueSubject[T, E]) ReceiveCompletion(c Completion[E]) {
	s.SendCompletion(c)
}

var (
	_ Subject[int, Never] = (*PassthroughSubject[int, Never])(nil)
	_ Subject[int, Never] = (*CurrentValueSubject[int, Never])(nil)
)
