package stream

// Pair is the output of CombineLatest.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the output of CombineLatest3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// combiner is the per-subscription state of CombineLatest: one slot per upstream.
// Every slot update and emission runs in the same drain loop.
type combiner[Out any, E error] struct {
	l       *link[Out, E]
	serial  drainer
	values  []any
	filled  []bool
	missing int
	live    int
	build   func([]any) Out
}

func (c *combiner[Out, E]) receive(i int, v any) {
	c.serial.run(func() {
		if c.l.isDone() {
			return
		}
		if !c.filled[i] {
			c.filled[i] = true
			c.missing--
		}
		c.values[i] = v
		if c.missing == 0 {
			c.l.send(c.build(c.values))
		}
	})
}

func (c *combiner[Out, E]) complete(comp Completion[E]) {
	c.serial.run(func() {
		if comp.Failed() {
			c.l.finish(comp)
			return
		}
		c.live--
		if c.live == 0 {
			c.l.finish(comp)
		}
	})
}

// feed subscribes one upstream into slot i of a combiner.
func feed[T, Out any, E error](up Publisher[T, E]) func(*combiner[Out, E], int) {
	if up == nil {
		panic(ErrNilPublisher)
	}
	return func(c *combiner[Out, E], i int) {
		up.Subscribe(&observer[T, E]{
			subscribe: c.l.attach,
			receive:   func(v T) { c.receive(i, v) },
			complete:  c.complete,
		})
	}
}

func combineLatest[Out any, E error](build func([]any) Out, feeds ...func(*combiner[Out, E], int)) Publisher[Out, E] {
	return PublisherFunc[Out, E](func(down Subscriber[Out, E]) Subscription {
		l := newLink(down)
		l.start()
		c := &combiner[Out, E]{
			l:       l,
			values:  make([]any, len(feeds)),
			filled:  make([]bool, len(feeds)),
			missing: len(feeds),
			live:    len(feeds),
			build:   build,
		}
		for i, f := range feeds {
			if l.isDone() {
				break
			}
			f(c, i)
		}
		return l
	})
}

// as converts a slot back to its type; nil interface values become the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

// CombineLatest emits a Pair of the latest value from each upstream whenever
// either emits, once both have emitted at least once.
//
// It finishes when both upstreams finish and fails on the first failure,
// cancelling the other upstream.
func CombineLatest[A, B any, E error](a Publisher[A, E], b Publisher[B, E]) Publisher[Pair[A, B], E] {
	return combineLatest(
		func(vs []any) Pair[A, B] {
			return Pair[A, B]{First: as[A](vs[0]), Second: as[B](vs[1])}
		},
		feed[A, Pair[A, B]](a),
		feed[B, Pair[A, B]](b),
	)
}

// CombineLatest3 is CombineLatest over three upstreams.
func CombineLatest3[A, B, C any, E error](a Publisher[A, E], b Publisher[B, E], c Publisher[C, E]) Publisher[Triple[A, B, C], E] {
	return combineLatest(
		func(vs []any) Triple[A, B, C] {
			return Triple[A, B, C]{First: as[A](vs[0]), Second: as[B](vs[1]), Third: as[C](vs[2])}
		},
		feed[A, Triple[A, B, C]](a),
		feed[B, Triple[A, B, C]](b),
		feed[C, Triple[A, B, C]](c),
	)
}

// Merge forwards every value of every upstream in emission order.
// It finishes when all upstreams finish and fails on the first failure,
// cancelling the others. Merge of no publishers finishes immediately.
func Merge[T any, E error](pubs ...Publisher[T, E]) Publisher[T, E] {
	for _, p := range pubs {
		if p == nil {
			panic(ErrNilPublisher)
		}
	}
	return PublisherFunc[T, E](func(down Subscriber[T, E]) Subscription {
		l := newLink(down)
		l.start()
		if len(pubs) == 0 {
			l.finish(Finished[E]())
			return l
		}

		var serial drainer
		live := len(pubs)
		for _, up := range pubs {
			if l.isDone() {
				break
			}
			up.Subscribe(&observer[T, E]{
				subscribe: l.attach,
				receive: func(v T) {
					serial.run(func() { l.send(v) })
				},
				complete: func(c Completion[E]) {
					serial.run(func() {
						if c.Failed() {
							l.finish(c)
							return
						}
						live--
						if live == 0 {
							l.finish(c)
						}
					})
				},
			})
		}
		return l
	})
}
