package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob(t *testing.T) {
	t.Run("Rejects invalid spec", func(t *testing.T) {
		s := New(time.UTC, nil)

		err := s.AddJob("broken", "not a spec", func(ctx context.Context) error { return nil })

		assert.Error(t, err)
		assert.Equal(t, 0, s.Entries())
	})

	t.Run("Rejects nil func", func(t *testing.T) {
		s := New(time.UTC, nil)

		assert.Error(t, s.AddJob("nil", "@every 1h", nil))
	})

	t.Run("Registers descriptor spec", func(t *testing.T) {
		s := New(time.UTC, nil)

		require.NoError(t, s.AddJob("reminder", "@every 1h", func(ctx context.Context) error { return nil }))
		assert.Equal(t, 1, s.Entries())
	})
}

func TestRunRecoversPanicAndErrors(t *testing.T) {
	s := New(time.UTC, nil)
	var calls int32

	assert.NotPanics(t, func() {
		s.run("panics", func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			panic("boom")
		})
		s.run("fails", func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("failed")
		})
	})
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRunPassesDeadline(t *testing.T) {
	s := New(time.UTC, nil)

	s.run("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
}
