package notification

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded event.
type Handler func(ctx context.Context, event BookingConfirmed) error

type ConsumerConfig struct {
	Brokers    []string
	Topic      string
	GroupID    string
	MaxRetries int
	Backoff    time.Duration
}

// Consumer reads booking events from a consumer group and hands them to a
// Handler. A message is committed once handled or once its retries are spent.
type Consumer struct {
	reader     *kafka.Reader
	handler    Handler
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func NewConsumer(cfg ConsumerConfig, handler Handler, log *logger.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic cannot be empty")
	}
	if cfg.GroupID == "" {
		return nil, errors.New("group ID cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("message handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
		Logger:      kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: errorLogger(log),
	})

	return newConsumer(reader, handler, cfg.MaxRetries, cfg.Backoff, log), nil
}

func newConsumer(reader *kafka.Reader, handler Handler, maxRetries int, backoff time.Duration, log *logger.Logger) *Consumer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Consumer{
		reader:     reader,
		handler:    handler,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
	}
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("kafka consumer error fetching message", "error", err)
			if !sleep(ctx, c.backoff) {
				return nil
			}
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("kafka consumer error committing offset", "error", err, "offset", msg.Offset)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	event, err := DecodeMessage(msg)
	if err != nil {
		c.log.Error("discarding undecodable message", "error", err, "offset", msg.Offset)
		return
	}

	for attempt := 0; ; attempt++ {
		err := c.handler(ctx, event)
		if err == nil {
			return
		}
		if attempt >= c.maxRetries {
			c.log.Error("giving up on booking event",
				"booking_id", event.BookingID,
				"event_id", event.EventID,
				"attempts", attempt+1,
				"error", err,
			)
			return
		}
		c.log.Warn("retrying booking event", "booking_id", event.BookingID, "attempt", attempt+1, "error", err)
		if !sleep(ctx, c.backoff) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
