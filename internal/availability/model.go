package availability

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "availability window not found")
	ErrWindowOverlap    = apperror.New(http.StatusConflict, apperror.KindOverlap, "availability window overlaps an existing window")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "start_date must be before end_date")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, apperror.KindNotFound, "property not found")
)

// Window is a host-declared open period [StartDate, EndDate) for one property.
// Windows of the same property never overlap.
type Window struct {
	ID         string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
}
