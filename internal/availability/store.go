package availability

import (
	"context"
	"time"
)

// Store owns the availability windows of every property.
type Store interface {
	// AddWindow persists w and fills its ID and CreatedAt. It returns
	// ErrWindowOverlap if w intersects another window of the same property.
	AddWindow(ctx context.Context, w *Window) error
	// RemoveWindow deletes the window regardless of bookings made inside it.
	// It returns ErrNotFound if the window does not belong to propertyID.
	RemoveWindow(ctx context.Context, propertyID, windowID string) error
	// Contains reports whether a single window covers all of [start, end).
	Contains(ctx context.Context, propertyID string, start, end time.Time) (bool, error)
	// ListWindows returns the property's windows ordered by start date.
	ListWindows(ctx context.Context, propertyID string) ([]*Window, error)
}
