package stream

import (
	"sync"
	"sync/atomic"
)

// Subscriber is a typed sink for a value/failure stream.
//
// OnSubscribe is called exactly once, before any value, with the subscription that
// links the subscriber to its publisher. Receive is called for every value and
// ReceiveCompletion at most once, after which nothing else is delivered.
type Subscriber[T any, E error] interface {
	OnSubscribe(Subscription)
	Receive(T)
	ReceiveCompletion(Completion[E])
}

// observer adapts callbacks to Subscriber for operator internals.
type observer[T any, E error] struct {
	subscribe func(Subscription)
	receive   func(T)
	complete  func(Completion[E])
}

func (o *observer[T, E]) OnSubscribe(s Subscription) {
	if o.subscribe != nil {
		o.subscribe(s)
	}
}

func (o *observer[T, E]) Receive(v T) {
	if o.receive != nil {
		o.receive(v)
	}
}

func (o *observer[T, E]) ReceiveCompletion(c Completion[E]) {
	if o.complete != nil {
		o.complete(c)
	}
}

// link guards delivery into one downstream subscriber and owns the upstream
// subscriptions that feed it. It is the Subscription handed to the downstream.
type link[T any, E error] struct {
	down      Subscriber[T, E]
	done      atomic.Bool
	mu        sync.Mutex
	upstreams []Subscription
	onCancel  []func()
}

func newLink[T any, E error](down Subscriber[T, E]) *link[T, E] {
	return &link[T, E]{down: down}
}

// start hands the link to the downstream subscriber.
func (l *link[T, E]) start() {
	l.down.OnSubscribe(l)
}

func (l *link[T, E]) isDone() bool {
	return l.done.Load()
}

// attach registers an upstream subscription, cancelling it right away when the
// link is already done.
func (l *link[T, E]) attach(s Subscription) {
	l.mu.Lock()
	if l.done.Load() {
		l.mu.Unlock()
		s.Cancel()
		return
	}
	l.upstreams = append(l.upstreams, s)
	l.mu.Unlock()
}

// detach forgets an upstream subscription that terminated on its own.
func (l *link[T, E]) detach(s Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, u := range l.upstreams {
		if u == s {
			l.upstreams = append(l.upstreams[:i], l.upstreams[i+1:]...)
			return
		}
	}
}

// cancelled registers fn to run when the downstream cancels.
// It does not run on normal termination.
func (l *link[T, E]) cancelled(fn func()) {
	l.mu.Lock()
	l.onCancel = append(l.onCancel, fn)
	l.mu.Unlock()
}

func (l *link[T, E]) Cancel() {
	if !l.done.CompareAndSwap(false, true) {
		return
	}
	l.mu.Lock()
	hooks := l.onCancel
	l.onCancel = nil
	l.mu.Unlock()

	l.cancelUpstreams()
	for _, fn := range hooks {
		fn()
	}
}

func (l *link[T, E]) cancelUpstreams() {
	l.mu.Lock()
	ups := l.upstreams
	l.upstreams = nil
	l.mu.Unlock()

	for _, u := range ups {
		u.Cancel()
	}
}

func (l *link[T, E]) send(v T) {
	if l.done.Load() {
		return
	}
	l.down.Receive(v)
}

// finish delivers the terminal event once and tears down every upstream.
func (l *link[T, E]) finish(c Completion[E]) {
	if !l.done.CompareAndSwap(false, true) {
		return
	}
	l.mu.Lock()
	l.onCancel = nil
	l.mu.Unlock()

	l.cancelUpstreams()
	l.down.ReceiveCompletion(c)
}

// sink is the closure-pair subscriber behind Sink and Assign.
type sink[T any, E error] struct {
	upstream     slot
	done         atomic.Bool
	onValue      func(T)
	onCompletion func(Completion[E])
}

func (s *sink[T, E]) OnSubscribe(sub Subscription) {
	s.upstream.set(sub)
}

func (s *sink[T, E]) Receive(v T) {
	if s.done.Load() || s.onValue == nil {
		return
	}
	s.onValue(v)
}

func (s *sink[T, E]) ReceiveCompletion(c Completion[E]) {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	if s.onCompletion != nil {
		s.onCompletion(c)
	}
}

// Sink subscribes to pub with a pair of callbacks. Either callback may be nil.
// The returned Cancellable detaches the callbacks from the stream.
//
// The Cancellable must be kept by the caller: nothing else holds on to it.
func Sink[T any, E error](pub Publisher[T, E], onValue func(T), onCompletion func(Completion[E])) *Cancellable {
	s := &sink[T, E]{onValue: onValue, onCompletion: onCompletion}
	c := NewCancellable(func() {
		s.done.Store(true)
		s.upstream.Cancel()
	})
	if sub := pub.Subscribe(s); sub != nil {
		s.upstream.set(sub)
	}
	return c
}

// SinkValues is Sink without a completion callback.
func SinkValues[T any, E error](pub Publisher[T, E], onValue func(T)) *Cancellable {
	return Sink(pub, onValue, nil)
}

// Assign calls setter for every value of pub. It replaces property binding:
// the owner decides what the setter mutates.
func Assign[T any](pub Publisher[T, Never], setter func(T)) *Cancellable {
	return Sink(pub, setter, nil)
}
