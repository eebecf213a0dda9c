package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, apperror.KindNotFound, "property not found")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "start_date must be before end_date")
	ErrTotalTooLarge    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "booking total exceeds the supported amount")
	ErrCoverage         = apperror.New(http.StatusUnprocessableEntity, apperror.KindCoverage, "dates not available: outside published availability")
	ErrOverlap          = apperror.New(http.StatusConflict, apperror.KindOverlap, "dates not available: already booked")
	ErrLockTimeout      = apperror.New(http.StatusServiceUnavailable, apperror.KindLockTimeout, "property is busy, try again")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, apperror.KindForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Active reports whether a booking in this status occupies the calendar.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no transition may leave this status.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// GuestContact is optional contact data supplied with a reservation request.
type GuestContact struct {
	Name  string `validate:"max=255"`
	Email string `validate:"omitempty,email,max=255"`
	Phone string `validate:"omitempty,max=32"`
}

// Booking is a reservation of [StartDate, EndDate) on one property. Amounts
// are in minor currency units; TotalPrice is fixed at creation.
type Booking struct {
	ID          string
	PropertyID  string
	GuestID     string
	StartDate   time.Time
	EndDate     time.Time
	NightlyRate int64
	TotalPrice  int64
	Status      Status
	Contact     *GuestContact
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing bookings. Empty fields do not filter.
// Search matches, case-insensitively, a substring of the property title or
// of the guest contact email.
type Filter struct {
	PropertyID string
	GuestID    string
	Status     Status
	Search     string
	Page       int
	PageSize   int
}

func (f *Filter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
}
