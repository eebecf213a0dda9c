package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
)

type WindowResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewWindowResponse(w *availability.Window) WindowResponse {
	return WindowResponse{
		ID:         w.ID,
		PropertyID: w.PropertyID,
		StartDate:  date.Format(w.StartDate),
		EndDate:    date.Format(w.EndDate),
		CreatedAt:  w.CreatedAt,
	}
}

// AddWindowRequest carries calendar dates as "2006-01-02".
type AddWindowRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// Parse converts the request's dates.
func (r *AddWindowRequest) Parse() (start, end time.Time, err error) {
	if start, err = date.Parse(r.StartDate); err != nil {
		return
	}
	end, err = date.Parse(r.EndDate)
	return
}

type WindowURI struct {
	PropertyID string `uri:"id" binding:"required,uuid"`
	WindowID   string `uri:"windowId" binding:"required,uuid"`
}
