package store

import (
	"context"
	"errors"
	"net"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// errRetry marks an error as worth another attempt.
type errRetry struct{ err error }

func (e errRetry) Error() string { return e.err.Error() }
func (e errRetry) Unwrap() error { return e.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return errRetry{err}
}

// IsRetryable reports whether err was marked by [Retryable].
func IsRetryable(err error) bool {
	return errors.As(err, new(errRetry))
}

// transient marks network and timeout failures of the backends as
// retryable and passes everything else through.
func transient(err error) error {
	var netErr net.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &netErr), mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return Retryable(err)
	}
	return err
}

// Backoff retries an operation with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// retryDelay is the first delay of the default policy. Tests shorten it.
var retryDelay = 200 * time.Millisecond

// Do calls fn until it succeeds, returns an error not marked retryable, the
// attempts run out, or ctx ends. The last error is returned unwrapped.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= b.Attempts {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	var r errRetry
	if errors.As(err, &r) {
		return r.err
	}
	return err
}

// RetryWithBackoff runs fn with three attempts starting at retryDelay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Backoff{Attempts: 3, Delay: retryDelay}.Do(ctx, fn)
}
