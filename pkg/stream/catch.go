package stream

// MapError converts an upstream failure with transform. Values pass through.
func MapError[T any, E, F error](up Publisher[T, E], transform func(E) F) Publisher[T, F] {
	return operate(up, func(l *link[T, F]) *observer[T, E] {
		return &observer[T, E]{
			receive: l.send,
			complete: func(c Completion[E]) {
				if c.Failed() {
					l.finish(Failure(transform(c.Err())))
					return
				}
				l.finish(Finished[F]())
			},
		}
	})
}

// Catch replaces the rest of the stream with handler(err) when the upstream fails.
// The handler runs at most once per subscription: a failure of the replacement
// publisher is delivered downstream as is.
func Catch[T any, E, F error](up Publisher[T, E], handler func(E) Publisher[T, F]) Publisher[T, F] {
	return operate(up, func(l *link[T, F]) *observer[T, E] {
		caught := false
		return &observer[T, E]{
			receive: l.send,
			complete: func(c Completion[E]) {
				if !c.Failed() {
					l.finish(Finished[F]())
					return
				}
				if caught || l.isDone() {
					return
				}
				caught = true
				handler(c.Err()).Subscribe(&observer[T, F]{
					subscribe: l.attach,
					receive:   l.send,
					complete:  l.finish,
				})
			},
		}
	})
}

// ReplaceError emits fallback and finishes when the upstream fails.
func ReplaceError[T any, E error](up Publisher[T, E], fallback T) Publisher[T, Never] {
	return operate(up, func(l *link[T, Never]) *observer[T, E] {
		return &observer[T, E]{
			receive: l.send,
			complete: func(c Completion[E]) {
				if c.Failed() {
					l.send(fallback)
				}
				l.finish(Finished[Never]())
			},
		}
	})
}

// SetFailureType retypes a publisher that cannot fail, so it can be combined
// with publishers of failure type F.
func SetFailureType[F error, T any](up Publisher[T, Never]) Publisher[T, F] {
	return operate(up, func(l *link[T, F]) *observer[T, Never] {
		return &observer[T, Never]{
			receive: l.send,
			complete: func(Completion[Never]) {
				l.finish(Finished[F]())
			},
		}
	})
}

// EraseFailure widens the failure type to error.
func EraseFailure[T any, E error](up Publisher[T, E]) Publisher[T, error] {
	return MapError(up, func(err E) error { return err })
}

// AssertNoFailure panics with the failure if the upstream fails.
// Use it where a failure is a programming error.
func AssertNoFailure[T any, E error](up Publisher[T, E]) Publisher[T, Never] {
	return operate(up, func(l *link[T, Never]) *observer[T, E] {
		return &observer[T, E]{
			receive: l.send,
			complete: func(c Completion[E]) {
				if c.Failed() {
					panic(c.Err())
				}
				l.finish(Finished[Never]())
			},
		}
	})
}
