package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/db"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/lock"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

// ScopedFunc runs with exclusive access to one property's calendar.
type ScopedFunc func(ctx context.Context, windows availability.Store, ledger Ledger) error

// AtomicScope serializes work per property. Different properties never
// contend. Failing to get exclusion within the wait bound yields ErrLockTimeout.
type AtomicScope interface {
	Run(ctx context.Context, propertyID string, fn ScopedFunc) error
}

// AdvisoryScope runs fn in one PostgreSQL transaction holding a
// transaction-level advisory lock on the property.
type AdvisoryScope struct {
	pool *pgxpool.Pool
	wait time.Duration
}

func NewAdvisoryScope(pool *pgxpool.Pool, wait time.Duration) *AdvisoryScope {
	return &AdvisoryScope{pool: pool, wait: wait}
}

func (s *AdvisoryScope) Run(ctx context.Context, propertyID string, fn ScopedFunc) error {
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		// SET cannot take parameters; the value is an integer we format ourselves.
		// Zero would disable the timeout, so it is at least one millisecond.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", max(s.wait.Milliseconds(), 1))); err != nil {
			return fmt.Errorf("set lock timeout failed: %w", err)
		}
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", propertyID); err != nil {
			return err
		}
		return fn(ctx, availability.NewPgxStore(tx), NewPgxLedger(tx))
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.LockNotAvailable {
		return apperror.Wrap(err, ErrLockTimeout)
	}
	return err
}

// LockerScope guards shared stores with a keyed Locker.
type LockerScope struct {
	locker  lock.Locker
	wait    time.Duration
	windows availability.Store
	ledger  Ledger
	log     *logger.Logger
}

func NewLockerScope(locker lock.Locker, wait time.Duration, windows availability.Store, ledger Ledger, log *logger.Logger) *LockerScope {
	return &LockerScope{
		locker:  locker,
		wait:    wait,
		windows: windows,
		ledger:  ledger,
		log:     log,
	}
}

func (s *LockerScope) Run(ctx context.Context, propertyID string, fn ScopedFunc) error {
	release, err := s.locker.Acquire(ctx, "property:"+propertyID, s.wait)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return apperror.Wrap(err, ErrLockTimeout)
		}
		return fmt.Errorf("acquire property lock failed: %w", err)
	}
	defer func() {
		if err := release(); err != nil {
			s.log.Warn("release property lock failed", "property_id", propertyID, "error", err)
		}
	}()

	return fn(ctx, s.windows, s.ledger)
}
