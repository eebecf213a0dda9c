package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/nekogravitycat/stay-booking-backend/internal/notification"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

// StateMachine moves bookings from pending to confirmed or rejected.
// Terminal bookings are never changed; asking again returns them as they are.
type StateMachine struct {
	ledger     Ledger
	dispatcher notification.Dispatcher
	log        *logger.Logger
}

func NewStateMachine(ledger Ledger, dispatcher notification.Dispatcher, log *logger.Logger) *StateMachine {
	return &StateMachine{
		ledger:     ledger,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Confirm confirms a pending booking and emits BookingConfirmed exactly once.
func (m *StateMachine) Confirm(ctx context.Context, id string) (*Booking, error) {
	b, applied, err := m.transition(ctx, id, StatusConfirmed)
	if err != nil || !applied {
		return b, err
	}

	// The status change is committed at this point; dispatch cannot undo it.
	m.dispatcher.Dispatch(confirmedEvent(b))
	return b, nil
}

// Reject rejects a pending booking, freeing its dates.
func (m *StateMachine) Reject(ctx context.Context, id string) (*Booking, error) {
	b, _, err := m.transition(ctx, id, StatusRejected)
	return b, err
}

func (m *StateMachine) transition(ctx context.Context, id string, target Status) (*Booking, bool, error) {
	b, applied, err := m.ledger.UpdateStatus(ctx, id, StatusPending, target)
	if err != nil {
		return nil, false, err
	}

	if !applied {
		m.log.Info("booking transition is a no-op",
			"booking_id", id,
			"status", b.Status,
			"requested", target,
		)
		return b, false, nil
	}

	m.log.Info("booking status changed", "booking_id", id, "status", b.Status)
	return b, true, nil
}

func confirmedEvent(b *Booking) notification.BookingConfirmed {
	event := notification.BookingConfirmed{
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		GuestID:    b.GuestID,
		StartDate:  date.Format(b.StartDate),
		EndDate:    date.Format(b.EndDate),
		TotalPrice: b.TotalPrice,
		OccurredAt: b.UpdatedAt,
	}
	if b.Contact != nil {
		event.Contact = &notification.Contact{
			Name:  b.Contact.Name,
			Email: b.Contact.Email,
			Phone: b.Contact.Phone,
		}
	}
	return event
}
