package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public catalog routes on g and the admin routes behind adminOnly.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminOnly ...gin.HandlerFunc) {
	sites := g.Group("/sites")
	{
		sites.GET("", h.List)
		sites.GET("/search", h.Search)
		sites.GET("/:code", h.Get)
		sites.GET("/:code/quote", h.Quote)
	}

	admin := g.Group("/admin/sites", adminOnly...)
	{
		admin.POST("", h.Create)
	}
}
