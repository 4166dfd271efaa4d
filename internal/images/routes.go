package images

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the images resource under rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	g := rg.Group("/images")
	{
		g.GET("", h.List)
		g.POST("", h.Upload)
		g.GET("/:filename", h.Download)
	}
}
