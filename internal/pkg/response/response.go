package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a success envelope, merging extra fields into the body.
// The envelope always carries "success": true.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes a failure envelope with the given status code
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// FailWithMessage writes a failure envelope using the "message" key,
// kept for routes whose clients expect it instead of "error"
func FailWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// InternalError writes a generic 500 envelope
func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}

// NotFound writes a 404 envelope
func NotFound(c *gin.Context, message string) {
	FailWithMessage(c, http.StatusNotFound, message)
}
