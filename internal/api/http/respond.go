package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/logging"
	"github.com/sanjerfit/webadmin-gateway/internal/middleware"
)

// RespondError maps the gateway error taxonomy onto console responses:
//   - upstream 401           -> 401, session marked for destruction
//   - backend 4xx            -> same status, backend message verbatim
//   - backend 5xx            -> 502, generic message
//   - anything else          -> 502, generic message (network, timeout)
//
// Errors are terminal per attempt; the console user retries manually.
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		c.Set(middleware.CtxInvalidateSession, true)
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired", "relogin": true})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		c.JSON(apiErr.Status, gin.H{"ok": false, "error": apiErr.Message})
		return
	}

	logging.NewLogger(c.Request.Context()).LogError(c.FullPath(), err)
	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "the backend could not process the request"})
}
