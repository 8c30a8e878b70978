package utils

import (
	"context"
	"errors"
	"medrecords-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryOnConflict(t *testing.T) {
	ctx := context.Background()
	conflict := func() error { return exceptions.ErrAssignmentConflict(errors.New("raced"), "d1") }

	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		calls := 0
		exhausted, err := RetryOnConflict(ctx, 3, time.Millisecond, func(attempt int) error {
			calls++
			if attempt < 3 {
				return conflict()
			}
			return nil
		})
		assert.NoError(t, err)
		assert.False(t, exhausted)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the bound", func(t *testing.T) {
		calls := 0
		exhausted, err := RetryOnConflict(ctx, 2, time.Millisecond, func(int) error {
			calls++
			return conflict()
		})
		assert.True(t, exhausted)
		assert.ErrorIs(t, err, exceptions.ErrKindConflict)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		exhausted, err := RetryOnConflict(ctx, 5, time.Millisecond, func(int) error {
			calls++
			return exceptions.ErrDoctorNotFound(nil, "d1")
		})
		assert.False(t, exhausted)
		assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		exhausted, err := RetryOnConflict(cancelled, 5, time.Second, func(int) error {
			return conflict()
		})
		assert.False(t, exhausted)
		assert.ErrorIs(t, err, exceptions.ErrKindUpstreamUnavailable)
	})
}
