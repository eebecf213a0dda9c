package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingWithinWindow(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, "g", "2025-01-10", "2025-01-12")

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.EqualValues(t, 100, b.NightlyRate)
	assert.EqualValues(t, 200, b.TotalPrice)
	assert.Equal(t, "g", b.GuestID)

	stored, err := f.ledger.Find(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.TotalPrice, stored.TotalPrice)
}

func TestCreateBookingInvalidRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end string
	}{
		{"end before start", "2025-01-12", "2025-01-10"},
		{"empty range", "2025-01-10", "2025-01-10"},
		{"no availability either", "2026-06-05", "2026-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateBooking(ctx, f.request("g", tt.start, tt.end))
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}

	_, total, err := f.ledger.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Zero(t, total, "validation failures write nothing")
}

func TestCreateBookingMalformedInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request("", "2025-01-10", "2025-01-12")
	_, err := f.engine.CreateBooking(ctx, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	req = f.request("g", "2025-01-10", "2025-01-12")
	req.PropertyID = "not-a-uuid"
	_, err = f.engine.CreateBooking(ctx, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	req = f.request("g", "2025-01-10", "2025-01-12")
	req.Contact = &GuestContact{Name: "Ada", Email: "not-an-email"}
	_, err = f.engine.CreateBooking(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "Email")
}

func TestCreateBookingUnknownProperty(t *testing.T) {
	f := newFixture(t)

	req := f.request("g", "2025-01-10", "2025-01-12")
	req.PropertyID = "00000000-0000-0000-0000-000000000000"
	_, err := f.engine.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestCreateBookingCoverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end string
	}{
		{"starts before window", "2024-12-30", "2025-01-02"},
		{"ends after window", "2025-01-30", "2025-02-02"},
		{"spans the gap between windows", "2025-01-31", "2025-02-02"},
		{"no window at all", "2025-06-01", "2025-06-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateBooking(ctx, f.request("g", tt.start, tt.end))
			assert.ErrorIs(t, err, ErrCoverage)
			assert.Equal(t, apperror.KindCoverage, apperror.KindOf(err))
		})
	}
}

func TestCreateBookingSpanningTouchingWindows(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, "2025-03-01", "2025-03-31")

	// Feb and Mar windows touch, but no single window covers the stay.
	_, err := f.engine.CreateBooking(context.Background(), f.request("g", "2025-02-27", "2025-03-03"))
	assert.ErrorIs(t, err, ErrCoverage)
}

func TestCreateBookingOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := f.create(t, "g", "2025-01-10", "2025-01-12")
	_, err := f.machine.Confirm(ctx, existing.ID)
	require.NoError(t, err)

	_, err = f.engine.CreateBooking(ctx, f.request("g2", "2025-01-11", "2025-01-13"))
	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, apperror.KindOverlap, apperror.KindOf(err))

	// Touching ranges do not overlap.
	f.create(t, "g2", "2025-01-12", "2025-01-14")
	f.create(t, "g3", "2025-01-08", "2025-01-10")
}

func TestRejectedBookingFreesDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "g", "2025-01-10", "2025-01-12")
	_, err := f.engine.CreateBooking(ctx, f.request("g2", "2025-01-10", "2025-01-12"))
	require.ErrorIs(t, err, ErrOverlap)

	_, err = f.machine.Reject(ctx, first.ID)
	require.NoError(t, err)

	second := f.create(t, "g2", "2025-01-10", "2025-01-12")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateBookingRateSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "g", "2025-01-10", "2025-01-13")
	assert.EqualValues(t, 300, b.TotalPrice)

	f.props.SetPrice(f.propertyID, 150)

	stored, err := f.ledger.Find(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, stored.NightlyRate)
	assert.EqualValues(t, 300, stored.TotalPrice)

	next := f.create(t, "g", "2025-01-20", "2025-01-22")
	assert.EqualValues(t, 300, next.TotalPrice)
	assert.EqualValues(t, 150, next.NightlyRate)
}

func TestCreateBookingNormalizesDates(t *testing.T) {
	f := newFixture(t)

	req := f.request("g", "2025-01-10", "2025-01-12")
	req.StartDate = req.StartDate.Add(15 * time.Hour)
	req.EndDate = req.EndDate.Add(9 * time.Hour)

	b, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", date.Format(b.StartDate))
	assert.True(t, b.StartDate.Equal(date.MustParse("2025-01-10")))
	assert.EqualValues(t, 200, b.TotalPrice)
}

func TestCreateBookingKeepsContact(t *testing.T) {
	f := newFixture(t)

	req := f.request("g", "2025-01-10", "2025-01-12")
	req.Contact = &GuestContact{Name: "Ada", Email: "ada@example.com", Phone: "+15551234"}
	b, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, b.Contact)
	assert.Equal(t, "ada@example.com", b.Contact.Email)

	req = f.request("g", "2025-01-20", "2025-01-22")
	req.Contact = &GuestContact{}
	b, err = f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, b.Contact)
}

func TestConcurrentCreateSameRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const callers = 16
	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		mu       sync.Mutex
		created  int
		overlaps int
	)

	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := f.engine.CreateBooking(ctx, f.request(fmt.Sprintf("g%d", i), "2025-02-01", "2025-02-03"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrOverlap):
				overlaps++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, callers-1, overlaps)
	f.assertNoActiveOverlap(t)
}

func TestConcurrentCreateRandomRanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	feb := date.MustParse("2025-02-01")

	type stay struct{ start, end time.Time }
	stays := make([]stay, 200)
	for i := range stays {
		s := feb.AddDate(0, 0, rng.Intn(25))
		stays[i] = stay{s, s.AddDate(0, 0, 1+rng.Intn(3))}
	}

	var wg sync.WaitGroup
	for i, s := range stays {
		wg.Add(1)
		go func(i int, s stay) {
			defer wg.Done()
			b, err := f.engine.CreateBooking(ctx, CreateRequest{
				PropertyID: f.propertyID,
				GuestID:    fmt.Sprintf("g%d", i),
				StartDate:  s.start,
				EndDate:    s.end,
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrOverlap)
				return
			}
			// Some bookings are rejected concurrently to free their dates again.
			if i%3 == 0 {
				_, err := f.machine.Reject(ctx, b.ID)
				assert.NoError(t, err)
			}
		}(i, s)
	}
	wg.Wait()

	f.assertNoActiveOverlap(t)
}

func TestDifferentPropertiesDoNotContend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	catalog := property.NewService(f.props)
	other, err := catalog.Create(ctx, property.CreateRequest{Title: "Loft", PricePerNight: 80})
	require.NoError(t, err)
	require.NoError(t, f.windows.AddWindow(ctx, newWindow(other.ID, "2025-01-01", "2025-01-31")))

	// Hold the first property's lock; the other property must still book.
	release, err := f.locker.Acquire(ctx, "property:"+f.propertyID, time.Second)
	require.NoError(t, err)
	defer func() { _ = release() }()

	b, err := f.engine.CreateBooking(ctx, CreateRequest{
		PropertyID: other.ID,
		GuestID:    "g",
		StartDate:  date.MustParse("2025-01-10"),
		EndDate:    date.MustParse("2025-01-12"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 160, b.TotalPrice)
}

func TestCreateBookingLockTimeout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	scope := NewLockerScope(f.locker, 20*time.Millisecond, f.windows, f.ledger, logger.Discard())
	engine := NewEngine(scope, property.NewService(f.props), logger.Discard())

	release, err := f.locker.Acquire(ctx, "property:"+f.propertyID, time.Second)
	require.NoError(t, err)

	_, err = engine.CreateBooking(ctx, f.request("g", "2025-01-10", "2025-01-12"))
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, apperror.KindLockTimeout, apperror.KindOf(err))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.Retryable())

	require.NoError(t, release())
	_, err = engine.CreateBooking(ctx, f.request("g", "2025-01-10", "2025-01-12"))
	assert.NoError(t, err)
}

func TestCreateBookingLongRangeTotal(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, "1500-01-01", "1900-01-01")

	b := f.create(t, "g", "1500-01-01", "1900-01-01")
	assert.EqualValues(t, 146097*100, b.TotalPrice)
}

func TestCreateBookingTotalOverflow(t *testing.T) {
	f := newFixture(t)
	f.props.SetPrice(f.propertyID, math.MaxInt64/2)

	_, err := f.engine.CreateBooking(context.Background(), f.request("g", "2025-01-10", "2025-01-13"))
	assert.ErrorIs(t, err, ErrTotalTooLarge)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// Two nights still fit.
	b := f.create(t, "g", "2025-01-10", "2025-01-12")
	assert.EqualValues(t, math.MaxInt64/2*2, b.TotalPrice)
}

func TestRemovingWindowKeepsExistingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "g", "2025-01-10", "2025-01-12")

	windows, err := f.windows.ListWindows(ctx, f.propertyID)
	require.NoError(t, err)
	require.NotEmpty(t, windows)
	january := windows[0]
	require.Equal(t, "2025-01-01", date.Format(january.StartDate))
	require.NoError(t, f.windows.RemoveWindow(ctx, f.propertyID, january.ID))

	stored, err := f.ledger.Find(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)

	// Coverage is checked before overlap, so the uncovered request reports coverage.
	_, err = f.engine.CreateBooking(ctx, f.request("h", "2025-01-11", "2025-01-13"))
	assert.ErrorIs(t, err, ErrCoverage)

	// Once the dates are published again the surviving booking still blocks them.
	f.addWindow(t, "2025-01-01", "2025-01-31")
	_, err = f.engine.CreateBooking(ctx, f.request("h", "2025-01-11", "2025-01-13"))
	assert.ErrorIs(t, err, ErrOverlap)

	confirmed, err := f.machine.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, 1, f.dispatcher.count())
}
