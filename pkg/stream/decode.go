package stream

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Decoder turns a raw payload into a T.
type Decoder[T any] interface {
	Format() string
	Decode(data []byte) (T, error)
}

type decoderFunc[T any] struct {
	format string
	fn     func([]byte, any) error
}

func (d decoderFunc[T]) Format() string {
	return d.format
}

func (d decoderFunc[T]) Decode(data []byte) (T, error) {
	var v T
	err := d.fn(data, &v)
	return v, err
}

// JSONDecoder decodes payloads with encoding/json.
func JSONDecoder[T any]() Decoder[T] {
	return decoderFunc[T]{format: "json", fn: json.Unmarshal}
}

// YAMLDecoder decodes payloads with gopkg.in/yaml.v3.
func YAMLDecoder[T any]() Decoder[T] {
	return decoderFunc[T]{format: "yaml", fn: yaml.Unmarshal}
}

// Decode decodes every upstream payload. The first payload that fails to decode
// fails the stream with a *DecodeError and cancels the upstream. Upstream
// failures pass through, widened to error.
func Decode[T any, E error](up Publisher[[]byte, E], dec Decoder[T]) Publisher[T, error] {
	return operate(up, func(l *link[T, error]) *observer[[]byte, E] {
		return &observer[[]byte, E]{
			receive: func(data []byte) {
				if l.isDone() {
					return
				}
				v, err := dec.Decode(data)
				if err != nil {
					l.finish(Failure[error](&DecodeError{Format: dec.Format(), Err: err}))
					return
				}
				l.send(v)
			},
			complete: func(c Completion[E]) {
				if c.Failed() {
					l.finish(Failure[error](c.Err()))
					return
				}
				l.finish(Finished[error]())
			},
		}
	})
}
