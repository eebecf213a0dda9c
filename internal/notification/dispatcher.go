package notification

import (
	"context"
	"sync"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

type Options struct {
	QueueSize      int
	Workers        int
	MaxAttempts    int
	Backoff        time.Duration
	PublishTimeout time.Duration
}

func (o *Options) withDefaults() {
	if o.QueueSize < 1 {
		o.QueueSize = 256
	}
	if o.Workers < 1 {
		o.Workers = 2
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 5 * time.Second
	}
}

// AsyncDispatcher hands events to a Sink from a bounded queue drained by a
// fixed pool of workers. A full queue drops the event.
type AsyncDispatcher struct {
	sink Sink
	log  *logger.Logger
	opts Options

	queue chan BookingConfirmed
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewAsyncDispatcher(sink Sink, log *logger.Logger, opts Options) *AsyncDispatcher {
	opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	d := &AsyncDispatcher{
		sink:   sink,
		log:    log,
		opts:   opts,
		queue:  make(chan BookingConfirmed, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	d.wg.Add(opts.Workers)
	for range opts.Workers {
		go d.worker()
	}
	return d
}

func (d *AsyncDispatcher) Dispatch(event BookingConfirmed) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notification dispatcher closed, event dropped", "booking_id", event.BookingID, "event_id", event.EventID)
		return
	}

	select {
	case d.queue <- event:
	default:
		d.log.Warn("notification queue full, event dropped", "booking_id", event.BookingID, "event_id", event.EventID)
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// If ctx ends first, in-flight retries are abandoned.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	defer d.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *AsyncDispatcher) deliver(event BookingConfirmed) {
	backoff := d.opts.Backoff
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.opts.PublishTimeout)
		err := d.sink.Publish(ctx, event)
		cancel()
		if err == nil {
			d.log.Debug("notification delivered", "booking_id", event.BookingID, "event_id", event.EventID, "attempt", attempt)
			return
		}

		if attempt >= d.opts.MaxAttempts || d.ctx.Err() != nil {
			d.log.Error("notification delivery failed",
				"booking_id", event.BookingID,
				"event_id", event.EventID,
				"attempts", attempt,
				"error", err,
			)
			return
		}

		d.log.Warn("notification delivery failed, retrying", "booking_id", event.BookingID, "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-d.ctx.Done():
		}
	}
}
