package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
)

type ContactResponse struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type BookingResponse struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"property_id"`
	GuestID     string           `json:"guest_id"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Nights      int64            `json:"nights"`
	NightlyRate int64            `json:"nightly_rate"`
	TotalPrice  int64            `json:"total_price"`
	Status      booking.Status   `json:"status"`
	Contact     *ContactResponse `json:"contact,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		PropertyID:  b.PropertyID,
		GuestID:     b.GuestID,
		StartDate:   date.Format(b.StartDate),
		EndDate:     date.Format(b.EndDate),
		Nights:      date.Nights(b.StartDate, b.EndDate),
		NightlyRate: b.NightlyRate,
		TotalPrice:  b.TotalPrice,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Contact != nil {
		resp.Contact = &ContactResponse{Name: b.Contact.Name, Email: b.Contact.Email, Phone: b.Contact.Phone}
	}
	return resp
}

// CreateBookingRequest carries calendar dates as "2006-01-02". The guest is
// the authenticated caller.
type CreateBookingRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
}

// ToDomain parses the dates and builds the engine request for guestID.
func (r *CreateBookingRequest) ToDomain(guestID string) (booking.CreateRequest, error) {
	start, err := date.Parse(r.StartDate)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	end, err := date.Parse(r.EndDate)
	if err != nil {
		return booking.CreateRequest{}, err
	}

	req := booking.CreateRequest{
		PropertyID: r.PropertyID,
		GuestID:    guestID,
		StartDate:  start,
		EndDate:    end,
	}
	if r.GuestName != "" || r.GuestEmail != "" || r.GuestPhone != "" {
		req.Contact = &booking.GuestContact{Name: r.GuestName, Email: r.GuestEmail, Phone: r.GuestPhone}
	}
	return req, nil
}

// ListBookingsRequest holds the query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	GuestID    string `form:"guest_id"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed rejected"`
	Search     string `form:"search" binding:"omitempty,max=255"`
}

func (r *ListBookingsRequest) ToFilter() booking.Filter {
	r.Normalize()
	return booking.Filter{
		PropertyID: r.PropertyID,
		GuestID:    r.GuestID,
		Status:     booking.Status(r.Status),
		Search:     r.Search,
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
}
