package notification

import (
	"context"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

// LogSink records events in the application log. It stands in for Kafka
// when no brokers are configured.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event BookingConfirmed) error {
	s.log.Info("booking confirmed event",
		"event_id", event.EventID,
		"booking_id", event.BookingID,
		"property_id", event.PropertyID,
		"guest_id", event.GuestID,
	)
	return nil
}
