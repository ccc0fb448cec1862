package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// CORS attaches cross-origin headers to every response and answers
// pre-flight OPTIONS requests with an empty 200. With no allowed origins
// configured any origin is accepted ("*").
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := "*"
		if len(allowedOrigins) > 0 {
			reqOrigin := c.GetHeader("Origin")
			if !slices.Contains(allowedOrigins, reqOrigin) {
				origin = ""
			} else {
				origin = reqOrigin
				c.Header("Vary", "Origin")
			}
		}

		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
