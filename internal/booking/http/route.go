package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminOnly ...gin.HandlerFunc) {
	group := g.Group("/reservations")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.DELETE("/:id", h.Cancel)
	}

	// === Admin Routes ===
	admin := g.Group("/admin/sites", adminOnly...)
	{
		admin.GET("/:code/reservations", h.ListForSite)
	}
}
