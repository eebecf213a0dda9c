package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	windows, err := h.service.ListWindows(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]WindowResponse, len(windows))
	for i, w := range windows {
		items[i] = NewWindowResponse(w)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Add(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	var body AddWindowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	start, end, err := body.Parse()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	w, err := h.service.AddWindow(c.Request.Context(), uri.ID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewWindowResponse(w))
}

func (h *Handler) Remove(c *gin.Context) {
	var uri WindowURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property or window id")
		return
	}

	if err := h.service.RemoveWindow(c.Request.Context(), uri.PropertyID, uri.WindowID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
