package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/pkg/notification"
	"github.com/dmitrymomot/streamkit/pkg/stream"
	"github.com/dmitrymomot/streamkit/pkg/stream/streamtest"
)

func TestCenter_Post(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every observer of the name", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		center := notification.NewCenter[string](notification.WithClock(func() time.Time { return at }))
		defer center.Close()

		first := streamtest.Record(center.Publisher("day_changed"))
		second := streamtest.Record(center.Publisher("day_changed"))
		other := streamtest.Record(center.Publisher("other"))

		require.NoError(t, center.Post("day_changed", "monday"))
		require.NoError(t, center.Post("day_changed", "tuesday"))

		for _, rec := range []*streamtest.Recorder[notification.Notification[string], stream.Never]{first, second} {
			values := rec.Values()
			require.Len(t, values, 2)
			assert.Equal(t, "monday", values[0].Payload)
			assert.Equal(t, "tuesday", values[1].Payload)
			assert.Equal(t, "day_changed", values[0].Name)
			assert.Equal(t, at, values[0].PostedAt)
			assert.NotEmpty(t, values[0].ID)
			assert.NotEqual(t, values[0].ID, values[1].ID)
		}
		assert.Empty(t, other.Values())
	})

	t.Run("drops notifications without observers", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter[int]()
		defer center.Close()

		require.NoError(t, center.Post("lonely", 1))

		rec := streamtest.Record(center.Publisher("lonely"))
		require.NoError(t, center.Post("lonely", 2))
		assert.Equal(t, []int{2}, payloads(rec.Values()))
	})

	t.Run("cancelled observer stops receiving", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter[int]()
		defer center.Close()

		var got []int
		sub := stream.SinkValues(center.Publisher("n"), func(n notification.Notification[int]) {
			got = append(got, n.Payload)
		})
		require.NoError(t, center.Post("n", 1))
		sub.Cancel()
		require.NoError(t, center.Post("n", 2))

		assert.Equal(t, []int{1}, got)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter[int]()
		err := center.Post("", 1)
		assert.ErrorAs(t, err, &notification.ErrEmptyName{})
	})
}

func TestCenter_Close(t *testing.T) {
	t.Parallel()

	center := notification.NewCenter[int]()
	rec := streamtest.Record(center.Publisher("n"))
	assert.Equal(t, []string{"n"}, center.Names())

	require.NoError(t, center.Close())
	require.NoError(t, center.Close())

	assert.True(t, rec.Finished())
	assert.ErrorIs(t, center.Post("n", 1), notification.ErrCenterClosed{})

	late := streamtest.Record(center.Publisher("n"))
	assert.True(t, late.Finished())
	assert.Empty(t, center.Names())
}

func payloads[T any](ns []notification.Notification[T]) []T {
	out := make([]T, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Payload)
	}
	return out
}
