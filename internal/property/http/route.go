package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers property routes. Reads are public; creation is admin only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/properties")

	group.GET("/:id", h.Get)
	group.POST("", authMiddleware, adminMiddleware, h.Create)
}
