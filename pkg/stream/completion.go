package stream

import "fmt"

// Never is the failure type of publishers that cannot fail.
// The engine's own sources never deliver a Never value.
type Never struct{}

func (Never) Error() string {
	return "stream: never"
}

// Completion is the terminal event of a stream: either finished or failed with E.
type Completion[E error] struct {
	err    E
	failed bool
}

// Finished returns a normal completion.
func Finished[E error]() Completion[E] {
	return Completion[E]{}
}

// Failure returns a completion that carries err.
func Failure[E error](err E) Completion[E] {
	return Completion[E]{err: err, failed: true}
}

// Failed reports whether the stream terminated with a failure.
func (c Completion[E]) Failed() bool {
	return c.failed
}

// Err returns the failure, or the zero value of E for a finished stream.
func (c Completion[E]) Err() E {
	return c.err
}

func (c Completion[E]) String() string {
	if c.failed {
		return fmt.Sprintf("failure(%v)", c.err)
	}
	return "finished"
}
