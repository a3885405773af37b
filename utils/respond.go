package utils

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Fail renders the standard error envelope. Server errors carry a stack
// trace outside release mode; credentials and raw tokens must never be
// passed in msg.
func Fail(c *gin.Context, status int, msg string) {
	payload := gin.H{"success": false, "error": msg}
	if status >= http.StatusInternalServerError && gin.Mode() != gin.ReleaseMode {
		payload["stack"] = string(debug.Stack())
	}
	c.JSON(status, payload)
}

// FailFields renders a validation failure listing every field violation.
func FailFields(c *gin.Context, msgs []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "validation failed",
		"errors":  msgs,
	})
}
