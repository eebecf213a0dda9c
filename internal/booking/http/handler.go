package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	req, err := body.ToDomain(auth.GetUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Confirm handles POST /bookings/:id/confirm. A booking already out of
// pending is returned unchanged.
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// Reject handles POST /bookings/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, id string) (*booking.Booking, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	b, err := op(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Get handles GET /bookings/:id. Guests may only read their own bookings.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !auth.IsAdmin(c) && b.GuestID != auth.GetUserID(c) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// List handles GET /bookings. Non-admin callers only ever see their own
// bookings and cannot search.
func (h *Handler) List(c *gin.Context) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	filter := query.ToFilter()
	if !auth.IsAdmin(c) {
		filter.GuestID = auth.GetUserID(c)
		filter.Search = ""
	}
	h.list(c, filter)
}

// Me handles GET /bookings/me.
func (h *Handler) Me(c *gin.Context) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	filter := query.ToFilter()
	filter.GuestID = auth.GetUserID(c)
	filter.Search = ""
	h.list(c, filter)
}

func (h *Handler) list(c *gin.Context, filter booking.Filter) {
	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}
