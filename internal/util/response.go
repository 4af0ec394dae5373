package util

import "github.com/gin-gonic/gin"

// Error writes the standard error body used across the API. Successful
// responses return the bare resource, so only the error shape is shared.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
