package property

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "property not found")
	ErrEmptyTitle   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "title cannot be empty")
	ErrInvalidPrice = apperror.New(http.StatusBadRequest, apperror.KindValidation, "price_per_night must not be negative")
)

// Property is a bookable unit with a flat nightly rate in minor currency units.
type Property struct {
	ID            string
	Title         string
	PricePerNight int64
	CreatedAt     time.Time
}
