package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	"github.com/sanjerfit/webadmin-gateway/internal/auth/service"
)

// Handler bundles the dependencies for auth HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"session": sess.ID,
		"user":    sess.User,
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), api.SessionID(c), api.Token(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
