package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/streamkit/pkg/logger"
)

// Scheduler decides where and when delivery work runs.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time
	// Schedule runs fn as soon as the scheduler allows.
	Schedule(fn func())
	// ScheduleAfter runs fn after d. Cancelling the returned subscription
	// prevents fn from running if it has not started yet.
	ScheduleAfter(d time.Duration, fn func()) Subscription
}

type immediate struct{}

// Immediate runs scheduled work inline on the calling goroutine.
// Delayed work runs on a timer goroutine.
var Immediate Scheduler = immediate{}

func (immediate) Now() time.Time {
	return time.Now()
}

func (immediate) Schedule(fn func()) {
	fn()
}

func (immediate) ScheduleAfter(d time.Duration, fn func()) Subscription {
	t := time.AfterFunc(d, fn)
	return NewCancellable(func() { t.Stop() })
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueLogger sets the logger used to report dropped work.
func WithQueueLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}

// Queue is a serial dispatch queue: scheduled work runs one item at a time, in
// FIFO order, on a dedicated goroutine. It defers delivery to a later turn.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
	log    *slog.Logger
}

// NewQueue starts a queue that stops when ctx is done or Close is called.
func NewQueue(ctx context.Context, opts ...QueueOption) *Queue {
	ctx, cancel := context.WithCancel(ctx)
	q := &Queue{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	q.log = q.log.With(logger.Component("queue"))

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run()
	}()
	return q
}

func (q *Queue) run() {
	for {
		select {
		case <-q.ctx.Done():
			q.mu.Lock()
			q.closed = true
			dropped := len(q.tasks)
			q.tasks = nil
			q.mu.Unlock()
			if dropped > 0 {
				q.log.Debug("queue stopped with pending work", logger.Count(dropped))
			}
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			if len(q.tasks) == 0 || q.ctx.Err() != nil {
				q.mu.Unlock()
				break
			}
			fn := q.tasks[0]
			q.tasks[0] = nil
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			fn()
		}
	}
}

// Post enqueues fn. It returns ErrQueueClosed after Close or once the context is done.
func (q *Queue) Post(fn func()) error {
	q.mu.Lock()
	if q.closed || q.ctx.Err() != nil {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

func (q *Queue) Now() time.Time {
	return time.Now()
}

// Schedule is Post that drops work for a closed queue.
func (q *Queue) Schedule(fn func()) {
	if err := q.Post(fn); err != nil {
		q.log.Debug("scheduled work dropped", logger.Error(err))
	}
}

func (q *Queue) ScheduleAfter(d time.Duration, fn func()) Subscription {
	t := time.AfterFunc(d, func() { q.Schedule(fn) })
	return NewCancellable(func() { t.Stop() })
}

// Close stops the queue and waits for the running item to return.
// Pending work is dropped. Close is idempotent. It must not be called from
// work running on the queue itself.
func (q *Queue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	return nil
}

// ReceiveOn delivers values and completion on s, preserving their order when s
// is serial.
func ReceiveOn[T any, E error](up Publisher[T, E], s Scheduler) Publisher[T, E] {
	return operate(up, func(l *link[T, E]) *observer[T, E] {
		return &observer[T, E]{
			receive: func(v T) {
				s.Schedule(func() { l.send(v) })
			},
			complete: func(c Completion[E]) {
				s.Schedule(func() { l.finish(c) })
			},
		}
	})
}

// SubscribeOn performs the upstream subscription on s.
func SubscribeOn[T any, E error](up Publisher[T, E], s Scheduler) Publisher[T, E] {
	if up == nil {
		panic(ErrNilPublisher)
	}
	return PublisherFunc[T, E](func(down Subscriber[T, E]) Subscription {
		l := newLink(down)
		l.start()
		s.Schedule(func() {
			if l.isDone() {
				return
			}
			up.Subscribe(&observer[T, E]{
				subscribe: l.attach,
				receive:   l.send,
				complete:  l.finish,
			})
		})
		return l
	})
}

// Interval emits s.Now() every period, starting one period after subscription,
// until cancelled. It never finishes on its own.
// It panics with ErrNonPositiveInterval if period <= 0, like time.NewTicker.
func Interval(period time.Duration, s Scheduler) Publisher[time.Time, Never] {
	if period <= 0 {
		panic(ErrNonPositiveInterval)
	}
	return PublisherFunc[time.Time, Never](func(down Subscriber[time.Time, Never]) Subscription {
		l := newLink(down)
		timer := &slot{}
		l.attach(timer)
		l.start()
		if l.isDone() {
			return l
		}

		var tick func()
		tick = func() {
			if l.isDone() {
				return
			}
			l.send(s.Now())
			if !l.isDone() {
				timer.set(s.ScheduleAfter(period, tick))
			}
		}
		timer.set(s.ScheduleAfter(period, tick))
		return l
	})
}
