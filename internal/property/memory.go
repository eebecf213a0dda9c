package property

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps properties in a map. It backs tests and the
// in-process deployment mode.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Property
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Property)}
}

func (r *MemoryRepository) Create(_ context.Context, p *Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	r.items[p.ID] = *p
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// SetPrice changes the listed rate of an existing property.
func (r *MemoryRepository) SetPrice(id string, price int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.items[id]; ok {
		p.PricePerNight = price
		r.items[id] = p
	}
}
