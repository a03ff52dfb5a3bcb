package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPublisher is the panic value for operators built over a nil publisher.
	ErrNilPublisher = errors.New("stream: nil publisher")

	// ErrQueueClosed is returned when work is posted to a closed Queue.
	ErrQueueClosed = errors.New("stream: queue is closed")

	// ErrNonPositiveInterval is the panic value for Interval with a period <= 0.
	ErrNonPositiveInterval = errors.New("stream: non-positive interval")
)

// DecodeError is the failure emitted by Decode when a payload cannot be decoded.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stream: decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
