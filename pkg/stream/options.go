package stream

import "log/slog"

// SubjectOption configures a subject.
type SubjectOption func(*subjectConfig)

type subjectConfig struct {
	log *slog.Logger
}

func newSubjectConfig(opts []SubjectOption) subjectConfig {
	c := subjectConfig{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithLogger makes the subject report dropped and deferred sends at debug level.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) SubjectOption {
	return func(c *subjectConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// FlatMapOption configures FlatMap.
type FlatMapOption func(*flatMapConfig)

type flatMapConfig struct {
	maxPublishers int64
}

// WithMaxPublishers caps how many inner publishers may be active at once.
// Values above the cap wait in FIFO order until a slot frees. n <= 0 means unlimited.
func WithMaxPublishers(n int) FlatMapOption {
	return func(c *flatMapConfig) {
		c.maxPublishers = int64(max(n, 0))
	}
}
