package stream

import (
	"context"
	"sync"
)

// Future is a publisher that eventually produces a single value or fails.
//
// The work function runs once, when the Future is created, and receives a promise
// to resolve. Only the first promise call counts. Every subscriber, early or late,
// receives the same result followed by completion.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	value   T
	err     error
	waiting []*link[T, error]
}

// NewFuture creates a Future and runs work with its promise.
// The promise may be called from any goroutine.
func NewFuture[T any](work func(promise func(T, error))) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	work(f.resolve)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return
	default:
	}
	f.value, f.err = v, err
	close(f.done)
	waiting := f.waiting
	f.waiting = nil
	f.mu.Unlock()

	for _, l := range waiting {
		f.deliver(l)
	}
}

func (f *Future[T]) deliver(l *link[T, error]) {
	if f.err != nil {
		l.finish(Failure(f.err))
		return
	}
	l.send(f.value)
	l.finish(Finished[error]())
}

// Subscribe delivers the result immediately when it is known, or once the promise resolves.
func (f *Future[T]) Subscribe(down Subscriber[T, error]) Subscription {
	l := newLink(down)
	l.start()
	if l.isDone() {
		return l
	}

	l.cancelled(func() { f.forget(l) })

	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		f.deliver(l)
		return l
	default:
	}
	// A Cancel that ran before the lock already fired its hook.
	if !l.isDone() {
		f.waiting = append(f.waiting, l)
	}
	f.mu.Unlock()
	return l
}

func (f *Future[T]) forget(l *link[T, error]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.waiting {
		if w == l {
			f.waiting = append(f.waiting[:i], f.waiting[i+1:]...)
			return
		}
	}
}

// Await blocks until the Future resolves or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// IsComplete reports whether the promise has been resolved, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
