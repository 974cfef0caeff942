package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjerfit/webadmin-gateway/internal/activities/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/activities/service"
	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
)

var filterParams = []string{"search", "type", "status"}

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

func (h *Handler) approve(c *gin.Context) {
	h.respondReview(c, h.svc.Approve)
}

func (h *Handler) reject(c *gin.Context) {
	h.respondReview(c, h.svc.Reject)
}

func (h *Handler) respondReview(c *gin.Context, review func(ctx context.Context, token, sessionID, id string) (domain.Activity, error)) {
	act, err := review(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "activity not found"})
		case errors.Is(err, domain.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, domain.ErrReviewInFlight):
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "review already in progress"})
		default:
			api.RespondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "activity": act})
}
