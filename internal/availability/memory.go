package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps each property's windows in a slice sorted by start date.
// Windows are disjoint, so the slice is sorted by end date as well and both
// containment and overlap are answered with a binary search.
type MemoryStore struct {
	mu         sync.RWMutex
	byProperty map[string][]Window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byProperty: make(map[string][]Window)}
}

func (s *MemoryStore) AddWindow(_ context.Context, w *Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := s.byProperty[w.PropertyID]

	// First window ending after the new start is the only overlap candidate.
	i := sort.Search(len(windows), func(i int) bool {
		return windows[i].EndDate.After(w.StartDate)
	})
	if i < len(windows) && windows[i].StartDate.Before(w.EndDate) {
		return ErrWindowOverlap
	}

	w.ID = uuid.NewString()
	w.CreatedAt = time.Now().UTC()

	windows = append(windows, Window{})
	copy(windows[i+1:], windows[i:])
	windows[i] = *w
	s.byProperty[w.PropertyID] = windows
	return nil
}

func (s *MemoryStore) RemoveWindow(_ context.Context, propertyID, windowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := s.byProperty[propertyID]
	for i := range windows {
		if windows[i].ID == windowID {
			s.byProperty[propertyID] = append(windows[:i], windows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Contains(_ context.Context, propertyID string, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := s.byProperty[propertyID]

	// Last window starting on or before start is the only one that can cover the range.
	i := sort.Search(len(windows), func(i int) bool {
		return windows[i].StartDate.After(start)
	}) - 1
	if i < 0 {
		return false, nil
	}
	return !end.After(windows[i].EndDate), nil
}

func (s *MemoryStore) ListWindows(_ context.Context, propertyID string) ([]*Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := s.byProperty[propertyID]
	out := make([]*Window, len(windows))
	for i := range windows {
		w := windows[i]
		out[i] = &w
	}
	return out, nil
}
