package mirror

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy retries an operation with a fixed inter-attempt delay. Only errors
// accepted by Retryable are retried; the last error is returned unchanged
// once attempts are exhausted.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
	Log         *logrus.Logger
}

// DefaultRetryable retries reads and writes but never a broken client:
// a ConnectionFailure needs backoff at a higher level, not a tight retry.
func DefaultRetryable(err error) bool {
	switch KindOf(err) {
	case QueryFailure, DataFailure:
		return true
	default:
		return false
	}
}

// Do runs op up to MaxAttempts times. Intermediate failures log at warning,
// the final failure at error.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		last = op()
		if last == nil {
			return nil
		}
		fields := logrus.Fields{"op": name, "attempt": attempt, "max_attempts": attempts}
		if !retryable(last) {
			if p.Log != nil {
				p.Log.WithFields(fields).WithError(last).Error("operation failed (not retryable)")
			}
			return last
		}
		if attempt == attempts {
			if p.Log != nil {
				p.Log.WithFields(fields).WithError(last).Error("operation failed, attempts exhausted")
			}
			break
		}
		if p.Log != nil {
			p.Log.WithFields(fields).WithError(last).Warn("operation failed, retrying")
		}
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return last
		}
	}
	return last
}
