package booking

import (
	"context"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Confirm(ctx context.Context, id string) (*Booking, error)
	Reject(ctx context.Context, id string) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
}

type service struct {
	engine  *Engine
	machine *StateMachine
	ledger  Ledger
}

// NewService wires the engine and state machine behind one boundary. Reads
// go straight to ledger and take no lock.
func NewService(engine *Engine, machine *StateMachine, ledger Ledger) Service {
	return &service{
		engine:  engine,
		machine: machine,
		ledger:  ledger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	return s.engine.CreateBooking(ctx, req)
}

func (s *service) Confirm(ctx context.Context, id string) (*Booking, error) {
	return s.machine.Confirm(ctx, id)
}

func (s *service) Reject(ctx context.Context, id string) (*Booking, error) {
	return s.machine.Reject(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.ledger.Find(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.ledger.List(ctx, filter)
}
