package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger keeps bookings in memory. Active bookings of each property
// are indexed in a slice sorted by start date; they never overlap, so the
// slice is sorted by end date too and ActiveOverlap is a binary search.
type MemoryLedger struct {
	mu     sync.RWMutex
	now    func() time.Time
	titles TitleLookup
	byID   map[string]*Booking
	order  []string
	active map[string][]*Booking
}

// TitleLookup resolves a property title for Filter.Search.
type TitleLookup func(propertyID string) string

type MemoryOption func(*MemoryLedger)

// WithTitles lets searches match property titles. Without it only guest
// emails are searched.
func WithTitles(lookup TitleLookup) MemoryOption {
	return func(l *MemoryLedger) {
		l.titles = lookup
	}
}

func NewMemoryLedger(opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		now:    func() time.Time { return time.Now().UTC() },
		titles: func(string) string { return "" },
		byID:   make(map[string]*Booking),
		active: make(map[string][]*Booking),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// firstEndingAfter returns the index of the first active booking whose end is after t.
func firstEndingAfter(list []*Booking, t time.Time) int {
	return sort.Search(len(list), func(i int) bool {
		return list[i].EndDate.After(t)
	})
}

func overlapsAt(list []*Booking, start, end time.Time) (int, bool) {
	i := firstEndingAfter(list, start)
	return i, i < len(list) && list[i].StartDate.Before(end)
}

func (l *MemoryLedger) ActiveOverlap(_ context.Context, propertyID string, start, end time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, hit := overlapsAt(l.active[propertyID], start, end)
	return hit, nil
}

func (l *MemoryLedger) Insert(_ context.Context, b *Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.active[b.PropertyID]
	i, hit := overlapsAt(list, b.StartDate, b.EndDate)
	if hit {
		return ErrOverlap
	}

	now := l.now()
	b.ID = uuid.NewString()
	b.Status = StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now

	stored := clone(b)
	l.byID[stored.ID] = stored
	l.order = append(l.order, stored.ID)

	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = stored
	l.active[stored.PropertyID] = list
	return nil
}

func (l *MemoryLedger) UpdateStatus(_ context.Context, id string, expected, next Status) (*Booking, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, ok := l.byID[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if stored.Status != expected {
		return clone(stored), false, nil
	}

	if stored.Status.Active() && !next.Active() {
		l.deactivate(stored)
	}
	stored.Status = next
	stored.UpdatedAt = l.now()
	return clone(stored), true, nil
}

func (l *MemoryLedger) deactivate(b *Booking) {
	list := l.active[b.PropertyID]
	i := sort.Search(len(list), func(i int) bool {
		return !list[i].StartDate.Before(b.StartDate)
	})
	if i < len(list) && list[i] == b {
		l.active[b.PropertyID] = append(list[:i], list[i+1:]...)
	}
}

func (l *MemoryLedger) Find(_ context.Context, id string) (*Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored, ok := l.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(stored), nil
}

func (l *MemoryLedger) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	filter.normalize()

	l.mu.RLock()
	defer l.mu.RUnlock()

	offset := (filter.Page - 1) * filter.PageSize
	page := []*Booking{}
	total := 0

	// Insertion order is creation order; walk it backwards for newest first.
	for i := len(l.order) - 1; i >= 0; i-- {
		b := l.byID[l.order[i]]
		if !filter.matches(b) || !l.searchMatches(filter.Search, b) {
			continue
		}
		if total >= offset && len(page) < filter.PageSize {
			page = append(page, clone(b))
		}
		total++
	}
	return page, total, nil
}

func (f Filter) matches(b *Booking) bool {
	return (f.PropertyID == "" || b.PropertyID == f.PropertyID) &&
		(f.GuestID == "" || b.GuestID == f.GuestID) &&
		(f.Status == "" || b.Status == f.Status)
}

func (l *MemoryLedger) searchMatches(search string, b *Booking) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	if b.Contact != nil && strings.Contains(strings.ToLower(b.Contact.Email), search) {
		return true
	}
	return strings.Contains(strings.ToLower(l.titles(b.PropertyID)), search)
}

func clone(b *Booking) *Booking {
	c := *b
	if b.Contact != nil {
		contact := *b.Contact
		c.Contact = &contact
	}
	return &c
}
