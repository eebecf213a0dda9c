package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/property"
)

type PropertyResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	PricePerNight int64     `json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		PricePerNight: p.PricePerNight,
		CreatedAt:     p.CreatedAt,
	}
}

type CreateRequest struct {
	Title         string `json:"title" binding:"required"`
	PricePerNight *int64 `json:"price_per_night" binding:"required,min=0"`
}
