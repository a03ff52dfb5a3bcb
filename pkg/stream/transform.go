package stream

// Map emits transform(v) for every upstream value. Failures pass through.
func Map[T, U any, E error](up Publisher[T, E], transform func(T) U) Publisher[U, E] {
	return operate(up, func(l *link[U, E]) *observer[T, E] {
		return &observer[T, E]{
			receive: func(v T) {
				if !l.isDone() {
					l.send(transform(v))
				}
			},
			complete: l.finish,
		}
	})
}

// Filter emits the upstream values for which predicate holds.
func Filter[T any, E error](up Publisher[T, E], predicate func(T) bool) Publisher[T, E] {
	return operate(up, func(l *link[T, E]) *observer[T, E] {
		return &observer[T, E]{
			receive: func(v T) {
				if !l.isDone() && predicate(v) {
					l.send(v)
				}
			},
			complete: l.finish,
		}
	})
}

// CompactMap applies transform to every upstream value and emits only the
// results reported as present. It is the lossy-parse operator.
func CompactMap[T, U any, E error](up Publisher[T, E], transform func(T) (U, bool)) Publisher[U, E] {
	return operate(up, func(l *link[U, E]) *observer[T, E] {
		return &observer[T, E]{
			receive: func(v T) {
				if l.isDone() {
					return
				}
				if out, ok := transform(v); ok {
					l.send(out)
				}
			},
			complete: l.finish,
		}
	})
}

// RemoveDuplicates drops values equal to the last emitted one.
// The first value of every subscription is always emitted.
func RemoveDuplicates[T comparable, E error](up Publisher[T, E]) Publisher[T, E] {
	return RemoveDuplicatesFunc(up, func(a, b T) bool { return a == b })
}

// RemoveDuplicatesFunc is RemoveDuplicates with a custom equality.
func RemoveDuplicatesFunc[T any, E error](up Publisher[T, E], equal func(prev, next T) bool) Publisher[T, E] {
	return operate(up, func(l *link[T, E]) *observer[T, E] {
		var (
			last T
			seen bool
		)
		return &observer[T, E]{
			receive: func(v T) {
				if seen && equal(last, v) {
					return
				}
				last, seen = v, true
				l.send(v)
			},
			complete: l.finish,
		}
	})
}

// Scan emits the running accumulation of upstream values, starting from seed.
func Scan[T, A any, E error](up Publisher[T, E], seed A, accumulate func(A, T) A) Publisher[A, E] {
	return operate(up, func(l *link[A, E]) *observer[T, E] {
		acc := seed
		return &observer[T, E]{
			receive: func(v T) {
				acc = accumulate(acc, v)
				l.send(acc)
			},
			complete: l.finish,
		}
	})
}
