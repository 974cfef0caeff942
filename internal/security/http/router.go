package http

import "github.com/gin-gonic/gin"

// Register attaches admin account routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.PATCH("/:id/toggle", h.toggle)
}
