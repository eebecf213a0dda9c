package availability

import (
	"context"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
)

type Service interface {
	AddWindow(ctx context.Context, propertyID string, start, end time.Time) (*Window, error)
	RemoveWindow(ctx context.Context, propertyID, windowID string) error
	ListWindows(ctx context.Context, propertyID string) ([]*Window, error)
}

type service struct {
	store   Store
	catalog property.Catalog
	log     *logger.Logger
}

func NewService(store Store, catalog property.Catalog, log *logger.Logger) Service {
	return &service{
		store:   store,
		catalog: catalog,
		log:     log,
	}
}

func (s *service) AddWindow(ctx context.Context, propertyID string, start, end time.Time) (*Window, error) {
	start, end = date.Of(start), date.Of(end)
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if err := s.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	w := &Window{PropertyID: propertyID, StartDate: start, EndDate: end}
	if err := s.store.AddWindow(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info("availability window added",
		"property_id", propertyID,
		"window_id", w.ID,
		"start_date", date.Format(start),
		"end_date", date.Format(end),
	)
	return w, nil
}

func (s *service) RemoveWindow(ctx context.Context, propertyID, windowID string) error {
	if err := s.store.RemoveWindow(ctx, propertyID, windowID); err != nil {
		return err
	}
	s.log.Info("availability window removed", "property_id", propertyID, "window_id", windowID)
	return nil
}

func (s *service) ListWindows(ctx context.Context, propertyID string) ([]*Window, error) {
	if err := s.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.store.ListWindows(ctx, propertyID)
}

func (s *service) requireProperty(ctx context.Context, propertyID string) error {
	ok, err := s.catalog.Exists(ctx, propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPropertyNotFound
	}
	return nil
}
