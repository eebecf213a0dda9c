// Package lock provides keyed mutual exclusion with a bounded wait.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a key could not be acquired within the wait bound.
var ErrTimeout = errors.New("lock: wait timed out")

// Release gives a held key back. Calling it more than once is safe.
type Release func() error

// Locker serializes work per key. Distinct keys never contend.
type Locker interface {
	// Acquire blocks until key is held, wait elapses (ErrTimeout) or ctx is done.
	Acquire(ctx context.Context, key string, wait time.Duration) (Release, error)
}
