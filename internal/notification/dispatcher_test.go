package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	events   []BookingConfirmed
	failures int
	block    chan struct{}
	calls    int
}

func (s *recordingSink) Publish(ctx context.Context, event BookingConfirmed) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) delivered() []BookingConfirmed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BookingConfirmed(nil), s.events...)
}

func TestAsyncDispatcherDelivers(t *testing.T) {
	sink := &recordingSink{}
	d := NewAsyncDispatcher(sink, logger.Discard(), Options{Workers: 2})

	for _, id := range []string{"b1", "b2", "b3"} {
		d.Dispatch(BookingConfirmed{BookingID: id})
	}
	require.NoError(t, d.Close(context.Background()))

	var ids []string
	for _, e := range sink.delivered() {
		ids = append(ids, e.BookingID)
	}
	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, ids)
}

func TestAsyncDispatcherRetries(t *testing.T) {
	sink := &recordingSink{failures: 2}
	d := NewAsyncDispatcher(sink, logger.Discard(), Options{Workers: 1, MaxAttempts: 3, Backoff: time.Millisecond})

	d.Dispatch(BookingConfirmed{BookingID: "b1"})
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, sink.delivered(), 1)
	assert.Equal(t, 3, sink.calls)
}

func TestAsyncDispatcherGivesUp(t *testing.T) {
	sink := &recordingSink{failures: 10}
	d := NewAsyncDispatcher(sink, logger.Discard(), Options{Workers: 1, MaxAttempts: 2, Backoff: time.Millisecond})

	d.Dispatch(BookingConfirmed{BookingID: "b1"})
	require.NoError(t, d.Close(context.Background()))

	assert.Empty(t, sink.delivered())
	assert.Equal(t, 2, sink.calls)
}

func TestAsyncDispatcherDropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewAsyncDispatcher(sink, logger.Discard(), Options{Workers: 1, QueueSize: 1})

	// The worker takes the first event and blocks; the second fills the queue.
	d.Dispatch(BookingConfirmed{BookingID: "b1"})
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	d.Dispatch(BookingConfirmed{BookingID: "b2"})

	done := make(chan struct{})
	go func() {
		d.Dispatch(BookingConfirmed{BookingID: "b3"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(sink.block)
	require.NoError(t, d.Close(context.Background()))

	var ids []string
	for _, e := range sink.delivered() {
		ids = append(ids, e.BookingID)
	}
	assert.Equal(t, []string{"b1", "b2"}, ids)
}

func TestAsyncDispatcherCloseTimeout(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewAsyncDispatcher(sink, logger.Discard(), Options{Workers: 1})
	d.Dispatch(BookingConfirmed{BookingID: "b1"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	// Dispatch after Close is a logged no-op.
	d.Dispatch(BookingConfirmed{BookingID: "b2"})
	assert.NoError(t, d.Close(context.Background()))
}
