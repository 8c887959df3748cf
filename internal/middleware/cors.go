package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the list of origins allowed to call the API. Empty
	// means any origin, which suits local development.
	AllowedOrigins []string
}

// CORS returns middleware that sets cross-origin headers and answers
// preflight requests.
func CORS(config CORSConfig) gin.HandlerFunc {
	// Build a set of allowed origins for O(1) lookup
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		// Normalize: remove trailing slash, lowercase
		normalized := strings.TrimSuffix(strings.ToLower(origin), "/")
		allowedSet[normalized] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowedSet) == 0 {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if isAllowedOrigin(origin, allowedSet) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func isAllowedOrigin(origin string, allowedSet map[string]bool) bool {
	normalized := strings.TrimSuffix(strings.ToLower(origin), "/")
	return allowedSet[normalized]
}
