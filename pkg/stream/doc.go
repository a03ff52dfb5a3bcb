// Package stream is an in-process reactive stream engine: typed publishers,
// subscribers, subjects and a fixed set of operators over a single-process,
// in-memory event stream.
//
// A Publisher describes a sequence of values of type T that ends either normally
// or with a failure of type E. Publishers are cheap descriptions; subscribing
// materialises per-subscription state, which is destroyed when the subscription is
// cancelled or the stream terminates.
//
// # Delivery model
//
// Delivery is synchronous push. Send on a subject walks through every operator of
// the chain and into the final subscriber before it returns. There is no demand
// protocol; bounded buffering is opt-in at the channel boundary (see Values).
//
// Publishers backed by asynchronous sources (Interval, Future, FromChannel,
// ReceiveOn) deliver on their own goroutine. Operators with more than one
// upstream (CombineLatest, Merge, FlatMap) and the subjects serialise their state
// and emissions through a single mutex-guarded queue, so they are safe to feed
// from several goroutines.
//
// # Reentrancy
//
// Subjects buffer and replay. A Send issued while the subject is already
// delivering is queued and delivered, in order, by the caller that is delivering,
// after the current value has reached every subscriber:
//
//	subject := stream.NewPassthroughSubject[int, stream.Never]()
//	stream.SinkValues[int, stream.Never](subject, func(v int) {
//	    if v == 1 {
//	        subject.Send(2) // queued, returns immediately
//	    }
//	})
//	subject.Send(1) // delivers 1 to every subscriber, then 2
//
// # Usage
//
//	username := stream.NewCurrentValueSubject[string, stream.Never]("")
//	password := stream.NewCurrentValueSubject[string, stream.Never]("")
//
//	valid := stream.Map(
//	    stream.CombineLatest[string, string, stream.Never](username, password),
//	    func(p stream.Pair[string, string]) bool {
//	        return p.First != "" && len(p.Second) >= 8
//	    },
//	)
//
//	var bag stream.Bag
//	stream.SinkValues(valid, func(ok bool) { fmt.Println("valid:", ok) }).Store(&bag)
//	defer bag.Cancel()
//
//	password.Send("12345678")
//
// Operators are functions, so chains read inside out. Subjects satisfy Publisher
// but type inference does not see through the interface, hence the explicit type
// arguments above.
//
// # Error Handling
//
// Failure is a typed terminal event carried by Completion, never a panic or a
// returned error. Once a stream fails nothing else is delivered. Recovery is
// explicit: Catch replaces the failed stream, MapError converts the failure type
// and ReplaceError substitutes a final value. The first failure of a combinator
// upstream is delivered once and every sibling subscription is cancelled.
//
// The package panics with ErrNilPublisher when an operator is built over a nil
// publisher, and Decode fails with *DecodeError.
//
// # Cancellation
//
// Subscription.Cancel is idempotent and safe to call from inside a callback.
// Every delivery checks the cancelled flag, so no value reaches a subscriber
// after Cancel returns; a callback already running is not interrupted. Owners
// keep their subscriptions explicitly, alone or in a Bag.
package stream
