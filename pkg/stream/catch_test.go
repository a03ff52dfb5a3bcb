package stream_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/pkg/stream"
	"github.com/dmitrymomot/streamkit/pkg/stream/streamtest"
)

type codeError struct {
	Code int
}

func (e codeError) Error() string { return fmt.Sprintf("code %d", e.Code) }

func TestMapError(t *testing.T) {
	t.Parallel()

	up := stream.Merge(stream.SetFailureType[error](stream.Just(1)), stream.Fail[int](errors.New("boom")))
	rec := streamtest.Record(stream.MapError(up, func(error) codeError {
		return codeError{Code: 500}
	}))

	assert.Equal(t, []int{1}, rec.Values())
	err, failed := rec.Failure()
	require.True(t, failed)
	assert.Equal(t, codeError{Code: 500}, err)
}

func TestCatch(t *testing.T) {
	t.Parallel()

	t.Run("replaces the failed stream", func(t *testing.T) {
		t.Parallel()

		up := stream.Merge(stream.SetFailureType[error](stream.Sequence(1, 2)), stream.Fail[int](errors.New("boom")))
		rec := streamtest.Record(stream.Catch(up, func(error) stream.Publisher[int, stream.Never] {
			return stream.Sequence(-1, -2)
		}))

		assert.Equal(t, []int{1, 2, -1, -2}, rec.Values())
		assert.True(t, rec.Finished())
	})

	t.Run("handler runs once and replacement failure passes through", func(t *testing.T) {
		t.Parallel()

		first := errors.New("first")
		second := errors.New("second")
		calls := 0
		rec := streamtest.Record(stream.Catch(stream.Fail[int](first), func(err error) stream.Publisher[int, error] {
			calls++
			assert.ErrorIs(t, err, first)
			return stream.Fail[int](second)
		}))

		assert.Equal(t, 1, calls)
		err, failed := rec.Failure()
		require.True(t, failed)
		assert.ErrorIs(t, err, second)
		assert.Len(t, rec.Completions(), 1)
	})

	t.Run("finished upstream skips the handler", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Record(stream.Catch(stream.Sequence(1), func(stream.Never) stream.Publisher[int, stream.Never] {
			t.Fatal("handler must not run")
			return nil
		}))

		assert.Equal(t, []int{1}, rec.Values())
		assert.True(t, rec.Finished())
	})
}

func TestReplaceError(t *testing.T) {
	t.Parallel()

	rec := streamtest.Record(stream.ReplaceError(stream.Fail[string](errors.New("boom")), "fallback"))

	assert.Equal(t, []string{"fallback"}, rec.Values())
	assert.True(t, rec.Finished())
}

func TestEraseFailure(t *testing.T) {
	t.Parallel()

	rec := streamtest.Record(stream.EraseFailure(stream.Fail[int](codeError{Code: 404})))

	err, failed := rec.Failure()
	require.True(t, failed)
	var target codeError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 404, target.Code)
}

func TestAssertNoFailure(t *testing.T) {
	t.Parallel()

	t.Run("passes values through", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Record(stream.AssertNoFailure(stream.EraseFailure(stream.Sequence(1, 2))))
		assert.Equal(t, []int{1, 2}, rec.Values())
		assert.True(t, rec.Finished())
	})

	t.Run("panics on failure", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithError(t, "boom", func() {
			streamtest.Record(stream.AssertNoFailure(stream.Fail[int](errors.New("boom"))))
		})
	})
}
