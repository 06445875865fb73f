package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlyAllowLocal rejects requests that do not originate from the loopback
// interface. The bridge is a local-only surface for the window shell.
func OnlyAllowLocal(c *gin.Context) {
	if c.ClientIP() == "127.0.0.1" || c.ClientIP() == "::1" {
		c.Next()
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
