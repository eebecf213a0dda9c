package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
)

type Handler struct {
	service property.Service
}

func NewHandler(service property.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), property.CreateRequest{
		Title:         body.Title,
		PricePerNight: *body.PricePerNight,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}
