package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/notification"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/lock"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notification.BookingConfirmed
}

func (d *recordingDispatcher) Dispatch(event notification.BookingConfirmed) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

type fixture struct {
	props      *property.MemoryRepository
	windows    *availability.MemoryStore
	ledger     *MemoryLedger
	locker     *lock.Local
	dispatcher *recordingDispatcher
	engine     *Engine
	machine    *StateMachine
	service    Service
	propertyID string
}

// newFixture builds an in-memory engine with one property at 100 per night,
// open 2025-01-01..2025-01-31 and for the whole of February 2025.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()

	f := &fixture{
		props:      property.NewMemoryRepository(),
		windows:    availability.NewMemoryStore(),
		ledger:     NewMemoryLedger(),
		locker:     lock.NewLocal(),
		dispatcher: &recordingDispatcher{},
	}

	catalog := property.NewService(f.props)
	p, err := catalog.Create(ctx, property.CreateRequest{Title: "Cabin", PricePerNight: 100})
	require.NoError(t, err)
	f.propertyID = p.ID

	f.addWindow(t, "2025-01-01", "2025-01-31")
	f.addWindow(t, "2025-02-01", "2025-03-01")

	scope := NewLockerScope(f.locker, time.Second, f.windows, f.ledger, log)
	f.engine = NewEngine(scope, catalog, log)
	f.machine = NewStateMachine(f.ledger, f.dispatcher, log)
	f.service = NewService(f.engine, f.machine, f.ledger)
	return f
}

func newWindow(propertyID, start, end string) *availability.Window {
	return &availability.Window{
		PropertyID: propertyID,
		StartDate:  date.MustParse(start),
		EndDate:    date.MustParse(end),
	}
}

func (f *fixture) addWindow(t *testing.T, start, end string) {
	t.Helper()
	require.NoError(t, f.windows.AddWindow(context.Background(), newWindow(f.propertyID, start, end)))
}

func (f *fixture) request(guest, start, end string) CreateRequest {
	return CreateRequest{
		PropertyID: f.propertyID,
		GuestID:    guest,
		StartDate:  date.MustParse(start),
		EndDate:    date.MustParse(end),
	}
}

func (f *fixture) create(t *testing.T, guest, start, end string) *Booking {
	t.Helper()
	b, err := f.engine.CreateBooking(context.Background(), f.request(guest, start, end))
	require.NoError(t, err)
	return b
}

// assertNoActiveOverlap checks that no two active bookings of the property intersect.
func (f *fixture) assertNoActiveOverlap(t *testing.T) {
	t.Helper()
	all, _, err := f.ledger.List(context.Background(), Filter{PropertyID: f.propertyID, PageSize: 10000})
	require.NoError(t, err)

	var active []*Booking
	for _, b := range all {
		if b.Status.Active() {
			active = append(active, b)
		}
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			require.False(t, date.Overlaps(a.StartDate, a.EndDate, b.StartDate, b.EndDate),
				"bookings %s [%s,%s) and %s [%s,%s) overlap",
				a.ID, date.Format(a.StartDate), date.Format(a.EndDate),
				b.ID, date.Format(b.StartDate), date.Format(b.EndDate))
		}
	}
}
