// Package notification carries booking domain events out of the request path.
package notification

import (
	"context"
	"time"
)

const EventTypeBookingConfirmed = "booking.confirmed"

// Contact mirrors the guest contact captured with the booking.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BookingConfirmed is emitted once per booking, after its pending to
// confirmed transition has been committed.
type BookingConfirmed struct {
	EventID    string    `json:"event_id"`
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	GuestID    string    `json:"guest_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalPrice int64     `json:"total_price"`
	Contact    *Contact  `json:"contact,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Dispatcher accepts events without blocking the caller. Delivery happens
// out of band; failures never propagate back.
type Dispatcher interface {
	Dispatch(event BookingConfirmed)
}

// Sink delivers a single event somewhere durable.
type Sink interface {
	Publish(ctx context.Context, event BookingConfirmed) error
}
