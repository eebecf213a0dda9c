package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. Every route requires an
// authenticated caller; state transitions are admin only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings", authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/me", h.Me)
		group.GET("/:id", h.Get)
	}

	// === Admin Routes ===
	admin := group.Group("", adminMiddleware)
	{
		admin.POST("/:id/confirm", h.Confirm)
		admin.POST("/:id/reject", h.Reject)
	}
}
