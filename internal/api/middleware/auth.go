// Package middleware provides shared gin middleware.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flashmind/flashmind-server/internal/token"
)

const userIDKey = "user_id"

// RequireAuth validates the Bearer token and stores the authenticated
// user's ID in the request context.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing or malformed authorization header",
				"timestamp": time.Now().UTC(),
			})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "invalid or expired token",
				"timestamp": time.Now().UTC(),
			})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the context.
// Handlers behind RequireAuth can rely on it being present.
func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(uint)
	return userID
}
