// Package middleware provides HTTP middleware for the auction service.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDKey is the gin context key the authenticated account id is stored
// under.
const userIDKey = "userID"

// Authenticator verifies a bearer token and resolves the account it belongs
// to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// RequireAuth returns middleware that rejects requests without a valid
// Authorization bearer token and exposes the caller's account id to handlers.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header missing",
			})
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication failed",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated account id set by RequireAuth.
func UserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
