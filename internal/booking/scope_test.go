package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/lock"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLocker struct{ err error }

func (l failingLocker) Acquire(context.Context, string, time.Duration) (lock.Release, error) {
	return nil, l.err
}

func TestLockerScopeReleasesAfterRun(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewLocal()
	scope := NewLockerScope(locker, 20*time.Millisecond, availability.NewMemoryStore(), NewMemoryLedger(), logger.Discard())

	boom := errors.New("boom")
	err := scope.Run(ctx, "p", func(context.Context, availability.Store, Ledger) error { return boom })
	assert.ErrorIs(t, err, boom)

	// The lock was released even though fn failed.
	release, err := locker.Acquire(ctx, "property:p", 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestLockerScopeErrors(t *testing.T) {
	ctx := context.Background()
	noop := func(context.Context, availability.Store, Ledger) error { return nil }

	scope := NewLockerScope(failingLocker{err: lock.ErrTimeout}, time.Millisecond, nil, nil, logger.Discard())
	err := scope.Run(ctx, "p", noop)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, lock.ErrTimeout)

	down := errors.New("connection refused")
	scope = NewLockerScope(failingLocker{err: down}, time.Millisecond, nil, nil, logger.Discard())
	err = scope.Run(ctx, "p", noop)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrLockTimeout)
}
