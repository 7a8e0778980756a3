// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity set by the upstream gateway.
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// Identity copies the caller id from UserIDHeader into the gin context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(UserIDHeader)); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// UserID returns the caller id, or "" when the request is anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Timeout bounds the request context so storage calls fail with a deadline
// instead of hanging.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
