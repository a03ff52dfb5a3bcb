package stream_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/pkg/stream"
	"github.com/dmitrymomot/streamkit/pkg/stream/streamtest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestInterval(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewTestScheduler(epoch)
	rec := streamtest.Record(stream.Interval(time.Second, sched))

	sched.Advance(500 * time.Millisecond)
	assert.Empty(t, rec.Values())

	sched.Advance(2500 * time.Millisecond)
	assert.Equal(t, []time.Time{
		epoch.Add(time.Second),
		epoch.Add(2 * time.Second),
		epoch.Add(3 * time.Second),
	}, rec.Values())

	rec.Cancel()
	sched.Advance(5 * time.Second)
	assert.Len(t, rec.Values(), 3)
	assert.Zero(t, sched.Pending())
	_, completed := rec.Completion()
	assert.False(t, completed)
}

func TestReceiveOn(t *testing.T) {
	t.Parallel()

	t.Run("defers delivery to the scheduler", func(t *testing.T) {
		t.Parallel()

		sched := streamtest.NewTestScheduler(epoch)
		rec := streamtest.Record(stream.ReceiveOn(stream.Sequence(1, 2, 3), sched))
		assert.Empty(t, rec.Values())
		assert.Equal(t, 4, sched.Pending())

		sched.Flush()
		assert.Equal(t, []int{1, 2, 3}, rec.Values())
		assert.True(t, rec.Finished())
	})

	t.Run("queue preserves order", func(t *testing.T) {
		t.Parallel()

		q := stream.NewQueue(t.Context())
		defer q.Close()

		rec := streamtest.Record(stream.ReceiveOn(stream.Sequence(1, 2, 3, 4), q))

		require.Eventually(t, rec.Finished, time.Second, 5*time.Millisecond)
		assert.Equal(t, []int{1, 2, 3, 4}, rec.Values())
	})
}

func TestSubscribeOn(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewTestScheduler(epoch)
	rec := streamtest.Record(stream.SubscribeOn(stream.Sequence(1, 2), sched))
	assert.Equal(t, 1, rec.Subscribes())
	assert.Empty(t, rec.Values())

	sched.Flush()
	assert.Equal(t, []int{1, 2}, rec.Values())
	assert.True(t, rec.Finished())
}

func TestQueue(t *testing.T) {
	t.Parallel()

	t.Run("runs posted work serially", func(t *testing.T) {
		t.Parallel()

		q := stream.NewQueue(t.Context())
		defer q.Close()

		var j journal
		done := make(chan struct{})
		for _, s := range []string{"a", "b", "c"} {
			require.NoError(t, q.Post(func() { j.add(s) }))
		}
		require.NoError(t, q.Post(func() { close(done) }))

		<-done
		assert.Equal(t, []string{"a", "b", "c"}, j.list())
	})

	t.Run("schedule after", func(t *testing.T) {
		t.Parallel()

		q := stream.NewQueue(t.Context())
		defer q.Close()

		var ran atomic.Bool
		q.ScheduleAfter(10*time.Millisecond, func() { ran.Store(true) })
		skipped := q.ScheduleAfter(10*time.Millisecond, func() { t.Error("cancelled work ran") })
		skipped.Cancel()

		assert.Eventually(t, ran.Load, time.Second, 5*time.Millisecond)
	})

	t.Run("closed queue rejects work", func(t *testing.T) {
		t.Parallel()

		q := stream.NewQueue(t.Context())
		require.NoError(t, q.Close())
		require.NoError(t, q.Close())

		assert.ErrorIs(t, q.Post(func() {}), stream.ErrQueueClosed)
		q.Schedule(func() { t.Error("work ran on a closed queue") })
	})
}

func TestImmediate(t *testing.T) {
	t.Parallel()

	ran := false
	stream.Immediate.Schedule(func() { ran = true })
	assert.True(t, ran)

	fired := make(chan struct{})
	stream.Immediate.ScheduleAfter(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("delayed work did not run")
	}
}

func TestInterval_NonPositivePeriod(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewTestScheduler(epoch)
	for _, period := range []time.Duration{0, -time.Second} {
		assert.PanicsWithValue(t, stream.ErrNonPositiveInterval, func() {
			stream.Interval(period, sched)
		})
	}
	assert.Zero(t, sched.Pending())
}
