package booking

import (
	"context"
	"time"
)

// Ledger owns booking records.
type Ledger interface {
	// ActiveOverlap reports whether a pending or confirmed booking of the
	// property intersects [start, end).
	ActiveOverlap(ctx context.Context, propertyID string, start, end time.Time) (bool, error)
	// Insert persists b as a new pending booking and fills its ID and
	// timestamps. It must run inside an AtomicScope for b's property.
	Insert(ctx context.Context, b *Booking) error
	// UpdateStatus moves a booking from expected to next. It returns the
	// stored booking and whether the change applied; when the stored status
	// differs from expected the booking is returned unchanged.
	UpdateStatus(ctx context.Context, id string, expected, next Status) (*Booking, bool, error)
	Find(ctx context.Context, id string) (*Booking, error)
	// List returns one page of matching bookings, newest first, and the total match count.
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
}
