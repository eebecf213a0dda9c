package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Header keys set on every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

var ErrUnexpectedEventType = errors.New("unexpected event type")

// EncodeMessage builds the Kafka message for event. Messages are keyed by
// booking id so every event of one booking lands on the same partition.
func EncodeMessage(event BookingConfirmed, source string) (kafka.Message, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event failed: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID)},
			{Key: HeaderEventType, Value: []byte(EventTypeBookingConfirmed)},
			{Key: HeaderSource, Value: []byte(source)},
		},
	}, nil
}

// DecodeMessage parses a message produced by EncodeMessage.
func DecodeMessage(msg kafka.Message) (BookingConfirmed, error) {
	var event BookingConfirmed
	for _, h := range msg.Headers {
		if h.Key == HeaderEventType && string(h.Value) != EventTypeBookingConfirmed {
			return event, fmt.Errorf("%w: %s", ErrUnexpectedEventType, h.Value)
		}
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, fmt.Errorf("decode event failed: %w", err)
	}
	return event, nil
}

// KafkaSink publishes events to a topic.
type KafkaSink struct {
	writer *kafka.Writer
	source string
}

func NewKafkaSink(brokers []string, topic, source string, log *logger.Logger) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash by key for per-booking ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  errorLogger(log),
	}

	return &KafkaSink{writer: writer, source: source}, nil
}

func (s *KafkaSink) Publish(ctx context.Context, event BookingConfirmed) error {
	msg, err := EncodeMessage(event, s.source)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish booking confirmed failed: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func errorLogger(log *logger.Logger) kafka.LoggerFunc {
	return func(msg string, args ...any) {
		log.Error("kafka: " + fmt.Sprintf(msg, args...))
	}
}
