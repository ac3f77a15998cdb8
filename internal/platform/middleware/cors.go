package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultOrigins are always allowed.
var DefaultOrigins = []string{"http://localhost:3000", "http://localhost:8080"}

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, X-Request-Id"
)

// CORS allows requests without an Origin header and requests from an allowlisted origin.
// Anything else is answered 403 by reject. Preflights short-circuit with 200.
func CORS(origins []string, reject gin.HandlerFunc) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(DefaultOrigins)+len(origins))
	for _, o := range append(append([]string{}, DefaultOrigins...), origins...) {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if _, ok := allowed[origin]; !ok {
			reject(c)
			c.Abort()
			return
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
