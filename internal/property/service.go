package property

import (
	"context"
	"errors"
	"strings"
)

type CreateRequest struct {
	Title         string
	PricePerNight int64
}

type Service interface {
	Catalog
	Create(ctx context.Context, req CreateRequest) (*Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
}

// Catalog is the read-only view the reservation core needs of properties.
type Catalog interface {
	// GetPricePerNight returns the current listed rate, or ErrNotFound.
	GetPricePerNight(ctx context.Context, id string) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Property, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if req.PricePerNight < 0 {
		return nil, ErrInvalidPrice
	}

	p := &Property{Title: title, PricePerNight: req.PricePerNight}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetPricePerNight(ctx context.Context, id string) (int64, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.PricePerNight, nil
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
