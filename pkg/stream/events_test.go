package stream_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/pkg/stream"
	"github.com/dmitrymomot/streamkit/pkg/stream/streamtest"
)

func TestHandleEvents(t *testing.T) {
	t.Parallel()

	t.Run("observes without changing the stream", func(t *testing.T) {
		t.Parallel()

		var j journal
		rec := streamtest.Record(stream.HandleEvents(stream.Sequence(1, 2), stream.EventHooks[int, stream.Never]{
			OnSubscribe:  func() { j.add("subscribe") },
			OnValue:      func(int) { j.add("value") },
			OnCompletion: func(c stream.Completion[stream.Never]) { j.add(c.String()) },
			OnCancel:     func() { j.add("cancel") },
		}))

		assert.Equal(t, []int{1, 2}, rec.Values())
		assert.Equal(t, []string{"subscribe", "value", "value", "finished"}, j.list())
	})

	t.Run("cancel hook runs on downstream cancel only", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewPassthroughSubject[int, stream.Never]()
		cancels := 0
		rec := streamtest.Record(stream.HandleEvents[int, stream.Never](subject, stream.EventHooks[int, stream.Never]{
			OnCancel: func() { cancels++ },
		}))

		rec.Cancel()
		rec.Cancel()

		assert.Equal(t, 1, cancels)
		assert.Zero(t, subject.Subscribers())
	})
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	pub := stream.Print(stream.Merge(
		stream.SetFailureType[error](stream.Just(1)),
		stream.Fail[int](errors.New("boom")),
	), "demo", log)

	streamtest.Record(pub)
	streamtest.Record(pub)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)

	ids := map[string]bool{}
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "print", entry["operator"])
		assert.Equal(t, "demo", entry["component"])
		id, _ := entry["subscription_id"].(string)
		require.NotEmpty(t, id)
		ids[id] = true
	}
	assert.Len(t, ids, 2)
	assert.Contains(t, lines[0], "receive subscription")
	assert.Contains(t, lines[1], "receive value")
	assert.Contains(t, lines[2], "receive failure")
	assert.Contains(t, lines[2], "boom")
}

func TestBag(t *testing.T) {
	t.Parallel()

	var bag stream.Bag
	first := stream.NewCancellable(nil)
	second := stream.NewCancellable(nil)
	first.Store(&bag)
	bag.Add(second)
	bag.Add(nil)
	assert.Equal(t, 2, bag.Len())

	bag.Cancel()
	assert.True(t, first.Cancelled())
	assert.True(t, second.Cancelled())
	assert.Zero(t, bag.Len())

	late := stream.NewCancellable(nil)
	bag.Add(late)
	assert.True(t, late.Cancelled())
}

func TestCancellable(t *testing.T) {
	t.Parallel()

	calls := 0
	var c *stream.Cancellable
	c = stream.NewCancellable(func() {
		calls++
		c.Cancel()
	})

	c.Cancel()
	c.Cancel()
	assert.Equal(t, 1, calls)
	assert.True(t, c.Cancelled())
}

func TestCompletion_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "finished", stream.Finished[error]().String())
	assert.Equal(t, "failure(boom)", stream.Failure(errors.New("boom")).String())
	assert.Equal(t, "stream: never", stream.Never{}.Error())
}
