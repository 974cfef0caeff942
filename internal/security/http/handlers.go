package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	"github.com/sanjerfit/webadmin-gateway/internal/security/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/security/service"
)

var filterParams = []string{"search", "role", "active"}

func (h *Handler) list(c *gin.Context) {
	q := service.ListQuery{
		Filters:  map[string]string{},
		Sort:     c.Query("sort"),
		Page:     api.IntQuery(c, "page"),
		PageSize: api.IntQuery(c, "per_page"),
	}
	for _, name := range filterParams {
		if v, ok := c.GetQuery(name); ok {
			q.Filters[name] = v
		}
	}

	page, err := h.svc.List(c.Request.Context(), api.Token(c), api.SessionID(c), q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": page})
}

type inputReq struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Role            *string `json:"role"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

func (r inputReq) input() service.Input {
	return service.Input{
		Name:            r.Name,
		Email:           r.Email,
		Role:            r.Role,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req inputReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Create(c.Request.Context(), api.Token(c), api.SessionID(c), req.input())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}

func (h *Handler) update(c *gin.Context) {
	var req inputReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Update(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), req.input())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) toggle(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	u, err := h.svc.Toggle(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), confirmed)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "admin user not found"})
	case errors.Is(err, domain.ErrConfirmRequired):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "confirm_required": true})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		api.RespondError(c, err)
	}
}
