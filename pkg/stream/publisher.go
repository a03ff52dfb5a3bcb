package stream

import (
	"context"
	"slices"
)

// Publisher is a typed source of a value/failure stream, materialised per subscription.
//
// Implementations must call OnSubscribe on the subscriber before delivering anything
// and return the same subscription from Subscribe.
type Publisher[T any, E error] interface {
	Subscribe(Subscriber[T, E]) Subscription
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc[T any, E error] func(Subscriber[T, E]) Subscription

func (f PublisherFunc[T, E]) Subscribe(s Subscriber[T, E]) Subscription {
	return f(s)
}

// operate builds a single-upstream operator. build runs once per subscription,
// so any state it captures is per-subscription.
func operate[T, U any, E, F error](up Publisher[T, E], build func(*link[U, F]) *observer[T, E]) Publisher[U, F] {
	if up == nil {
		panic(ErrNilPublisher)
	}
	return PublisherFunc[U, F](func(down Subscriber[U, F]) Subscription {
		l := newLink(down)
		l.start()
		if l.isDone() {
			return l
		}
		obs := build(l)
		if obs.subscribe == nil {
			obs.subscribe = l.attach
		}
		up.Subscribe(obs)
		return l
	})
}

// FromSlice emits every value of values in order, then finishes.
// The slice is copied, so later mutation does not affect the publisher.
func FromSlice[T any](values []T) Publisher[T, Never] {
	values = slices.Clone(values)
	return PublisherFunc[T, Never](func(down Subscriber[T, Never]) Subscription {
		l := newLink(down)
		l.start()
		for _, v := range values {
			if l.isDone() {
				return l
			}
			l.send(v)
		}
		l.finish(Finished[Never]())
		return l
	})
}

// Sequence is FromSlice for a literal list of values.
func Sequence[T any](values ...T) Publisher[T, Never] {
	return FromSlice(values)
}

// Just emits v once, then finishes.
func Just[T any](v T) Publisher[T, Never] {
	return FromSlice([]T{v})
}

// Empty finishes immediately without emitting.
func Empty[T any, E error]() Publisher[T, E] {
	return PublisherFunc[T, E](func(down Subscriber[T, E]) Subscription {
		l := newLink(down)
		l.start()
		l.finish(Finished[E]())
		return l
	})
}

// Fail fails immediately with err.
func Fail[T any, E error](err E) Publisher[T, E] {
	return PublisherFunc[T, E](func(down Subscriber[T, E]) Subscription {
		l := newLink(down)
		l.start()
		l.finish(Failure(err))
		return l
	})
}

// Deferred calls factory on every subscription and subscribes to the result.
func Deferred[T any, E error](factory func() Publisher[T, E]) Publisher[T, E] {
	return PublisherFunc[T, E](func(down Subscriber[T, E]) Subscription {
		return factory().Subscribe(down)
	})
}

// FromChannel emits every value received from ch on its own goroutine and
// finishes when ch is closed. It fails with ctx.Err() when ctx is done first.
//
// Each subscription reads from ch independently, so concurrent subscribers
// compete for values. Multicast them through a subject instead.
func FromChannel[T any](ctx context.Context, ch <-chan T) Publisher[T, error] {
	return PublisherFunc[T, error](func(down Subscriber[T, error]) Subscription {
		l := newLink(down)
		stop := make(chan struct{})
		l.attach(NewCancellable(func() { close(stop) }))
		l.start()
		if l.isDone() {
			return l
		}

		go func() {
			for {
				select {
				case <-stop:
					return
				case <-ctx.Done():
					l.finish(Failure(ctx.Err()))
					return
				case v, ok := <-ch:
					if !ok {
						l.finish(Finished[error]())
						return
					}
					l.send(v)
				}
			}
		}()
		return l
	})
}
