package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets the register frontend call the API from any origin. The header
// lists cover every verb the router exposes (PATCH included, for stock
// adjustments) and expose Content-Disposition so the browser sees the
// filenames of CSV and PDF downloads.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
