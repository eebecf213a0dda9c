package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers availability routes nested under a property.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/properties/:id/availability")

	group.GET("", h.List)

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Add)
		admin.DELETE("/:windowId", h.Remove)
	}
}
