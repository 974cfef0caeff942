package http

import "github.com/gin-gonic/gin"

// Register attaches activity routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("/:id/approve", h.approve)
	rg.POST("/:id/reject", h.reject)
}
