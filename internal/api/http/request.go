package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanjerfit/webadmin-gateway/internal/middleware"
)

// Token returns the backend bearer token the session middleware resolved.
func Token(c *gin.Context) string {
	return c.GetString(middleware.CtxToken)
}

// SessionID returns the console session identifier.
func SessionID(c *gin.Context) string {
	return c.GetString(middleware.CtxSessionID)
}

// IntQuery parses an integer query parameter, returning 0 when absent or
// malformed.
func IntQuery(c *gin.Context, name string) int {
	v := c.Query(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
