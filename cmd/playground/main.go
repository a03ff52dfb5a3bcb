package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dmitrymomot/streamkit/pkg/config"
	"github.com/dmitrymomot/streamkit/pkg/logger"
	"github.com/dmitrymomot/streamkit/pkg/notification"
	"github.com/dmitrymomot/streamkit/pkg/stream"
)

var errNetwork = errors.New("network unreachable")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logOpts, err := cfg.LoggerOptions()
	if err != nil {
		log.Fatalf("Failed to configure logger: %v", err)
	}
	l := logger.New(logOpts...)
	logger.SetAsDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenarios := []struct {
		name string
		run  func(context.Context, config.Config, *slog.Logger) error
	}{
		{"subjects", subjects},
		{"operators", operators},
		{"login_form", loginForm},
		{"merge", merge},
		{"flat_map", flatMap},
		{"decode", decode},
		{"notifications", notifications},
		{"timer", timer},
	}
	for _, s := range scenarios {
		sl := l.With(logger.Component(s.name))
		sl.Info("scenario started")
		if err := s.run(ctx, cfg, sl); err != nil {
			sl.Error("scenario failed", logger.Error(err))
			os.Exit(1)
		}
	}
}

func subjects(_ context.Context, _ config.Config, l *slog.Logger) error {
	var bag stream.Bag
	defer bag.Cancel()

	passthrough := stream.NewPassthroughSubject[string, stream.Never](stream.WithLogger(l))
	stream.SinkValues(stream.Print[string, stream.Never](passthrough, "passthrough", l), nil).Store(&bag)
	stream.Sink[string, stream.Never](passthrough, nil, func(c stream.Completion[stream.Never]) {
		l.Info("passthrough completed", slog.String("completion", c.String()))
	}).Store(&bag)

	passthrough.Send("hello")
	passthrough.Send("world")
	passthrough.SendCompletion(stream.Finished[stream.Never]())
	passthrough.Send("dropped")

	current := stream.NewCurrentValueSubject[int, stream.Never](0, stream.WithLogger(l))
	current.Send(1)
	stream.SinkValues(stream.Print[int, stream.Never](current, "current_value", l), nil).Store(&bag)
	current.Send(2)
	l.Info("current value", logger.Value(current.Value()))
	return nil
}

func operators(_ context.Context, _ config.Config, l *slog.Logger) error {
	var bag stream.Bag
	defer bag.Cancel()

	parsed := stream.CompactMap(stream.Sequence("a", "q", "e", "t", "p", "1", "100"), func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
	stream.SinkValues(parsed, func(n int) {
		l.Info("parsed", logger.Operator("compact_map"), logger.Value(n))
	}).Store(&bag)

	distinct := stream.RemoveDuplicates(stream.Sequence(0, 1, 1, 0, 1))
	stream.SinkValues(distinct, func(n int) {
		l.Info("distinct", logger.Operator("remove_duplicates"), logger.Value(n))
	}).Store(&bag)

	total := stream.Scan(stream.Filter(stream.Sequence(1, 2, 3, 4, 5, 6), func(n int) bool {
		return n%2 == 0
	}), 0, func(acc, n int) int { return acc + n })
	stream.SinkValues(total, func(n int) {
		l.Info("running total", logger.Operator("scan"), logger.Value(n))
	}).Store(&bag)
	return nil
}

type credentials = stream.Triple[string, string, string]

func loginForm(_ context.Context, _ config.Config, l *slog.Logger) error {
	var bag stream.Bag
	defer bag.Cancel()

	username := stream.NewCurrentValueSubject[string, stream.Never]("")
	password := stream.NewCurrentValueSubject[string, stream.Never]("")
	repeat := stream.NewCurrentValueSubject[string, stream.Never]("")

	valid := stream.RemoveDuplicates(stream.Map(
		stream.CombineLatest3[string, string, string, stream.Never](username, password, repeat),
		func(c credentials) bool {
			return len(c.First) >= 3 && len(c.Second) >= 8 && c.Second == c.Third
		},
	))

	var enabled bool
	stream.Assign(valid, func(ok bool) {
		enabled = ok
		l.Info("submit button", slog.Bool("enabled", ok))
	}).Store(&bag)

	username.Send("ann")
	password.Send("correct horse")
	repeat.Send("correct horse")
	repeat.Send("correct hors")

	l.Info("form state", slog.Bool("enabled", enabled))
	return nil
}

func merge(_ context.Context, _ config.Config, l *slog.Logger) error {
	var bag stream.Bag
	defer bag.Cancel()

	a := stream.NewPassthroughSubject[string, stream.Never]()
	b := stream.NewPassthroughSubject[string, stream.Never]()
	stream.Sink(stream.Merge[string, stream.Never](a, b), func(v string) {
		l.Info("merged", logger.Value(v))
	}, func(c stream.Completion[stream.Never]) {
		l.Info("merge completed", slog.String("completion", c.String()))
	}).Store(&bag)

	a.Send("a1")
	b.Send("b1")
	a.Send("a2")
	a.SendCompletion(stream.Finished[stream.Never]())
	b.Send("b2")
	b.SendCompletion(stream.Finished[stream.Never]())
	return nil
}

func flatMap(ctx context.Context, cfg config.Config, l *slog.Logger) error {
	fetch := func(id int) stream.Publisher[string, error] {
		return stream.NewFuture(func(promise func(string, error)) {
			go func() {
				time.Sleep(time.Duration(id) * 10 * time.Millisecond)
				if id == 3 {
					promise("", errNetwork)
					return
				}
				promise(fmt.Sprintf("user-%d", id), nil)
			}()
		})
	}

	users := stream.FlatMap(stream.SetFailureType[error](stream.Sequence(1, 2, 3)), fetch, cfg.FlatMapOptions()...)
	recovered := stream.Catch(users, func(err error) stream.Publisher[string, stream.Never] {
		l.Warn("fetch failed, using guest", logger.Error(err))
		return stream.Just("guest")
	})

	done := stream.NewFuture(func(promise func(struct{}, error)) {
		stream.Sink(recovered, func(name string) {
			l.Info("fetched", logger.Value(name))
		}, func(stream.Completion[stream.Never]) {
			promise(struct{}{}, nil)
		})
	})
	_, err := done.Await(ctx)
	return err
}

type event struct {
	Kind string `json:"kind" yaml:"kind"`
	At   int    `json:"at" yaml:"at"`
}

func decode(_ context.Context, _ config.Config, l *slog.Logger) error {
	var bag stream.Bag
	defer bag.Cancel()

	payloads := stream.Sequence(
		[]byte(`{"kind":"login","at":1}`),
		[]byte(`{"kind":"logout","at":2}`),
		[]byte(`not json`),
	)
	stream.Sink(stream.Decode(payloads, stream.JSONDecoder[event]()), func(e event) {
		l.Info("decoded", logger.Value(e))
	}, func(c stream.Completion[error]) {
		var decodeErr *stream.DecodeError
		if errors.As(c.Err(), &decodeErr) {
			l.Warn("decode stopped", slog.String("format", decodeErr.Format), logger.Error(decodeErr))
		}
	}).Store(&bag)
	return nil
}

func notifications(_ context.Context, _ config.Config, l *slog.Logger) error {
	center := notification.NewCenter[string](notification.WithLogger(l))
	defer center.Close()

	var bag stream.Bag
	defer bag.Cancel()

	stream.SinkValues(center.Publisher("day_changed"), func(n notification.Notification[string]) {
		l.Info("notification received",
			logger.Notification(n.Name),
			slog.String("id", n.ID),
			logger.Value(n.Payload),
		)
	}).Store(&bag)

	if err := center.Post("day_changed", "monday"); err != nil {
		return err
	}
	return center.Post("unobserved", "dropped")
}

func timer(ctx context.Context, cfg config.Config, l *slog.Logger) error {
	opts, err := cfg.ValuesOptions()
	if err != nil {
		return err
	}

	q := stream.NewQueue(ctx, stream.WithQueueLogger(l))
	defer q.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*cfg.TickInterval)
	defer cancel()

	ticks := stream.Values(ctx, stream.ReceiveOn(stream.Interval(cfg.TickInterval, stream.Immediate), q), opts...)
	for at := range ticks.C() {
		l.Info("tick", slog.Time("at", at))
	}
	l.Info("timer stopped", slog.Uint64("dropped", ticks.Drops()))
	return nil
}
