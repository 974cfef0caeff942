package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the login route. Extra middleware (the login rate
// limit) runs before the handler.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.login)
	rg.POST("/login", handlers...)
}

// RegisterProtected attaches the logout route behind session auth.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/logout", h.logout)
}
