package http

import "github.com/gin-gonic/gin"

// Register attaches premio routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.PATCH("/:id/toggle", h.toggle)
	rg.PATCH("/:id/stock", h.adjustStock)
	rg.POST("/:id/deliver", h.deliver)
}
