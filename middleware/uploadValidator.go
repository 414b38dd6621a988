package middleware

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireMultipart rejects requests whose body is not multipart form data
// before any parsing or buffering happens, so a malformed upload never costs
// more than a header read.
func RequireMultipart() gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "multipart/form-data" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content type must be multipart/form-data"})
			c.Abort()
			return
		}

		c.Next()
	}
}
