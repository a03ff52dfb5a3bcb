package stream

import "golang.org/x/sync/semaphore"

// FlatMap subscribes to the publisher returned by transform for every upstream
// value and forwards the values of all active inner publishers in arrival order.
//
// With WithMaxPublishers the number of simultaneously active inner publishers is
// capped; upstream values over the cap are queued and transform is called for
// them when a slot frees. Any failure, upstream or inner, fails the stream and
// cancels every other subscription. The stream finishes once the upstream and
// every inner publisher have finished.
func FlatMap[T, U any, E error](up Publisher[T, E], transform func(T) Publisher[U, E], opts ...FlatMapOption) Publisher[U, E] {
	if up == nil {
		panic(ErrNilPublisher)
	}
	var cfg flatMapConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return PublisherFunc[U, E](func(down Subscriber[U, E]) Subscription {
		l := newLink(down)
		l.start()
		if l.isDone() {
			return l
		}

		var (
			serial       drainer
			slots        *semaphore.Weighted
			pending      []T
			active       int
			upstreamDone bool
			start        func(T)
		)
		if cfg.maxPublishers > 0 {
			slots = semaphore.NewWeighted(cfg.maxPublishers)
		}

		// Everything below runs inside serial's drain loop.
		maybeFinish := func() {
			if upstreamDone && active == 0 && len(pending) == 0 {
				l.finish(Finished[E]())
			}
		}

		start = func(v T) {
			active++
			inner := &slot{}
			l.attach(inner)
			transform(v).Subscribe(&observer[U, E]{
				subscribe: inner.set,
				receive: func(u U) {
					serial.run(func() { l.send(u) })
				},
				complete: func(c Completion[E]) {
					serial.run(func() {
						l.detach(inner)
						if c.Failed() {
							l.finish(c)
							return
						}
						active--
						if slots != nil {
							slots.Release(1)
						}
						if len(pending) > 0 && !l.isDone() && (slots == nil || slots.TryAcquire(1)) {
							next := pending[0]
							var zero T
							pending[0] = zero
							pending = pending[1:]
							start(next)
						}
						maybeFinish()
					})
				},
			})
		}

		up.Subscribe(&observer[T, E]{
			subscribe: l.attach,
			receive: func(v T) {
				serial.run(func() {
					if l.isDone() {
						return
					}
					if slots == nil || slots.TryAcquire(1) {
						start(v)
						return
					}
					pending = append(pending, v)
				})
			},
			complete: func(c Completion[E]) {
				serial.run(func() {
					if c.Failed() {
						l.finish(c)
						return
					}
					upstreamDone = true
					maybeFinish()
				})
			},
		})
		return l
	})
}
