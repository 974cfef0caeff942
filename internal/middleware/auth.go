package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	secdomain "github.com/sanjerfit/webadmin-gateway/internal/security/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	CtxSessionID = "session_id"
	CtxToken     = "backend_token"
	CtxRole      = "admin_role"
	CtxEmail     = "admin_email"
)

// CtxInvalidateSession is set by handlers when the backend rejected the
// stored token; SessionAuth destroys the session after the request so the
// console's next call forces a fresh login.
const CtxInvalidateSession = "invalidate_session"

// SessionAuth resolves the bearer session ID issued at login and injects the
// upstream token into the request context. An unknown or expired session
// yields 401 so the console clears credentials and redirects to login.
func SessionAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := extractSessionID(c)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing session"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "session lookup failed"})
			return
		}

		role := secdomain.ParseRole(sess.User.Role)
		if role == secdomain.RoleColaborador {
			// collaborators use the mobile app; the console is staff-only
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "collaborator accounts cannot use the console"})
			return
		}

		c.Set(CtxSessionID, sess.ID)
		c.Set(CtxToken, sess.Token)
		c.Set(CtxRole, string(role))
		c.Set(CtxEmail, sess.User.Email)

		c.Next()

		if c.GetBool(CtxInvalidateSession) {
			_ = sessions.Destroy(c.Request.Context(), sess.ID)
		}
	}
}

// RequireRoles gates a route group to the given console roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := allowed[c.GetString(CtxRole)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequireWriteAccess blocks mutating methods for read-only roles. GET passes
// through untouched so a Visualizador can still browse every list.
func RequireWriteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if !secdomain.Role(c.GetString(CtxRole)).CanWrite() {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "role is read-only"})
				return
			}
		}
		c.Next()
	}
}

// extractSessionID reads the session from the Authorization header
// ("Bearer <session-id>") or the X-Session-Id header.
func extractSessionID(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")
	if len(bearer) > 7 && strings.HasPrefix(bearer, "Bearer ") {
		return bearer[7:]
	}
	return c.GetHeader("X-Session-Id")
}
