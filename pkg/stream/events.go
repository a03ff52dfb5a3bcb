package stream

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamkit/pkg/logger"
)

// EventHooks are side-effect callbacks for HandleEvents. Nil hooks are skipped.
type EventHooks[T any, E error] struct {
	OnSubscribe  func()
	OnValue      func(T)
	OnCompletion func(Completion[E])
	// OnCancel runs when the downstream cancels, not on normal termination.
	OnCancel func()
}

// HandleEvents calls hooks as events pass through, without changing the stream.
func HandleEvents[T any, E error](up Publisher[T, E], hooks EventHooks[T, E]) Publisher[T, E] {
	return operate(up, func(l *link[T, E]) *observer[T, E] {
		if hooks.OnCancel != nil {
			l.cancelled(hooks.OnCancel)
		}
		return &observer[T, E]{
			subscribe: func(s Subscription) {
				if hooks.OnSubscribe != nil {
					hooks.OnSubscribe()
				}
				l.attach(s)
			},
			receive: func(v T) {
				if l.isDone() {
					return
				}
				if hooks.OnValue != nil {
					hooks.OnValue(v)
				}
				l.send(v)
			},
			complete: func(c Completion[E]) {
				if !l.isDone() && hooks.OnCompletion != nil {
					hooks.OnCompletion(c)
				}
				l.finish(c)
			},
		}
	})
}

// Print logs every event that passes through at info level.
// Every subscription gets its own id so interleaved streams can be told apart.
// A nil log uses slog.Default().
func Print[T any, E error](up Publisher[T, E], prefix string, log *slog.Logger) Publisher[T, E] {
	if up == nil {
		panic(ErrNilPublisher)
	}
	if log == nil {
		log = slog.Default()
	}
	return Deferred(func() Publisher[T, E] {
		l := log.With(
			logger.Operator("print"),
			logger.Component(prefix),
			logger.SubscriptionID(uuid.New().String()),
		)
		return HandleEvents(up, EventHooks[T, E]{
			OnSubscribe: func() {
				l.Info("receive subscription", logger.Event("subscribe"))
			},
			OnValue: func(v T) {
				l.Info("receive value", logger.Event("value"), logger.Value(v))
			},
			OnCompletion: func(c Completion[E]) {
				if c.Failed() {
					l.Info("receive failure", logger.Event("completion"), logger.Error(c.Err()))
					return
				}
				l.Info("receive finished", logger.Event("completion"))
			},
			OnCancel: func() {
				l.Info("receive cancel", logger.Event("cancel"))
			},
		})
	})
}
