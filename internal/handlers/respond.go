// Package handlers contains HTTP request handlers for the auction service.
package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
)

// respondError writes the uniform error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// logAndRespondError logs the underlying error server-side and surfaces only
// the generic message to the caller.
func logAndRespondError(c *gin.Context, status int, err error, message string) {
	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	respondError(c, status, message)
}
