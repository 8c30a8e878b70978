package utils

import (
	"context"
	"errors"
	"medrecords-service/internal/pkg/exceptions"
	"time"
)

// RetryOnConflict runs fn up to attempts times while it fails with a Conflict
// kind, sleeping backoff*attempt between tries. Any other error, or success,
// returns immediately. exhausted reports whether the last error was still a
// conflict after the final attempt.
func RetryOnConflict(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) (exhausted bool, err error) {
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(attempt)
		if err == nil || !errors.Is(err, exceptions.ErrKindConflict) {
			return false, err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return false, exceptions.ErrServerDeadlineExceeded(ctx.Err())
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return true, err
}
