package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
)

// CreateRequest asks for [StartDate, EndDate) on a property. GuestID comes
// from the authenticated caller, never from the request body.
type CreateRequest struct {
	PropertyID string    `validate:"required,uuid"`
	GuestID    string    `validate:"required,max=255"`
	StartDate  time.Time `validate:"required"`
	EndDate    time.Time `validate:"required"`
	Contact    *GuestContact
}

// Engine creates bookings. Coverage and overlap are re-checked and the
// booking inserted under one AtomicScope for the property.
type Engine struct {
	scope    AtomicScope
	catalog  property.Catalog
	validate *requestValidator
	log      *logger.Logger
}

func NewEngine(scope AtomicScope, catalog property.Catalog, log *logger.Logger) *Engine {
	return &Engine{
		scope:    scope,
		catalog:  catalog,
		validate: newRequestValidator(),
		log:      log,
	}
}

func (e *Engine) CreateBooking(ctx context.Context, req CreateRequest) (*Booking, error) {
	req.StartDate, req.EndDate = date.Of(req.StartDate), date.Of(req.EndDate)
	if req.Contact != nil && *req.Contact == (GuestContact{}) {
		req.Contact = nil
	}

	if err := e.validate.Struct(req); err != nil {
		return nil, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidRange
	}

	// The rate read here is the snapshot stored on the booking.
	rate, err := e.catalog.GetPricePerNight(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("look up nightly rate failed: %w", err)
	}

	nights := date.Nights(req.StartDate, req.EndDate)
	if rate > 0 && nights > math.MaxInt64/rate {
		return nil, ErrTotalTooLarge
	}
	total := nights * rate

	log := e.log.With(
		"property_id", req.PropertyID,
		"guest_id", req.GuestID,
		"start_date", date.Format(req.StartDate),
		"end_date", date.Format(req.EndDate),
	)

	var created *Booking
	err = e.scope.Run(ctx, req.PropertyID, func(ctx context.Context, windows availability.Store, ledger Ledger) error {
		covered, err := windows.Contains(ctx, req.PropertyID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if !covered {
			log.Info("booking refused: outside availability")
			return ErrCoverage
		}

		taken, err := ledger.ActiveOverlap(ctx, req.PropertyID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if taken {
			log.Info("booking refused: overlaps an active booking")
			return ErrOverlap
		}

		b := &Booking{
			PropertyID:  req.PropertyID,
			GuestID:     req.GuestID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			NightlyRate: rate,
			TotalPrice:  total,
			Contact:     req.Contact,
		}
		if err := ledger.Insert(ctx, b); err != nil {
			if errors.Is(err, ErrOverlap) {
				log.Warn("booking refused: lost race to a concurrent writer", "error", err)
				return ErrOverlap
			}
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLockTimeout) {
			log.Warn("booking refused: property lock wait exceeded")
		}
		return nil, err
	}

	log.Info("booking created", "booking_id", created.ID, "total_price", created.TotalPrice)
	return created, nil
}
