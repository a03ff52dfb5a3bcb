package notification

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamkit/pkg/logger"
	"github.com/dmitrymomot/streamkit/pkg/stream"
)

// Notification is a named event posted to a Center.
type Notification[T any] struct {
	ID       string
	Name     string
	Payload  T
	PostedAt time.Time
}

// Option configures a Center.
type Option func(*options)

type options struct {
	log *slog.Logger
	now func() time.Time
}

// WithLogger sets the logger used to report dropped notifications.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the time source used for PostedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Center multicasts notifications by name. Each name is backed by a passthrough
// subject created on first use, so observers only see notifications posted
// after they subscribed. All methods are safe for concurrent use.
type Center[T any] struct {
	mu       sync.RWMutex
	subjects map[string]*stream.PassthroughSubject[Notification[T], stream.Never]
	closed   bool
	opts     options
}

// NewCenter creates an empty Center.
func NewCenter[T any](opts ...Option) *Center[T] {
	o := options{log: logger.Discard(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.log = o.log.With(logger.Component("notification_center"))
	return &Center[T]{
		subjects: make(map[string]*stream.PassthroughSubject[Notification[T], stream.Never]),
		opts:     o,
	}
}

// Publisher returns the stream of notifications posted under name.
// For a closed center it returns a publisher that finishes immediately.
func (c *Center[T]) Publisher(name string) stream.Publisher[Notification[T], stream.Never] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return stream.Empty[Notification[T], stream.Never]()
	}
	subject, ok := c.subjects[name]
	if !ok {
		subject = stream.NewPassthroughSubject[Notification[T], stream.Never](
			stream.WithLogger(c.opts.log.With(logger.Notification(name))),
		)
		c.subjects[name] = subject
	}
	return subject
}

// Post delivers payload to every current observer of name, synchronously.
// With no observers the notification is dropped.
func (c *Center[T]) Post(name string, payload T) error {
	if name == "" {
		return ErrEmptyName{Operation: "post"}
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrCenterClosed{}
	}
	subject, ok := c.subjects[name]
	c.mu.RUnlock()

	if !ok || subject.Subscribers() == 0 {
		c.opts.log.Debug("notification dropped, no observers", logger.Notification(name))
		return nil
	}

	subject.Send(Notification[T]{
		ID:       uuid.New().String(),
		Name:     name,
		Payload:  payload,
		PostedAt: c.opts.now(),
	})
	return nil
}

// Names returns the sorted names that have been observed.
func (c *Center[T]) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.subjects))
	for name := range c.subjects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close finishes every notification stream. It is safe to call Close multiple times.
func (c *Center[T]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	subjects := c.subjects
	c.subjects = make(map[string]*stream.PassthroughSubject[Notification[T], stream.Never])
	c.mu.Unlock()

	for _, subject := range subjects {
		subject.SendCompletion(stream.Finished[stream.Never]())
	}
	return nil
}
