package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront/internal/config"
)

const (
	// The API serves JSON and PDF quotes only; nothing may load or frame it.
	apiContentPolicy = "default-src 'none'; frame-ancestors 'none'"
	hstsPolicy       = "max-age=31536000; includeSubDomains"
)

// SecurityHeaders adds security headers to responses. Responses under any of
// the private path prefixes carry per-session cart data and are never cached.
// HSTS is only sent in production, where the API sits behind TLS.
func SecurityHeaders(app config.AppConfig, privatePrefixes ...string) gin.HandlerFunc {
	server := app.Name
	if app.Environment != "production" && app.Version != "" {
		server += "/" + app.Version
	}
	production := app.Environment == "production"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", apiContentPolicy)
		h.Set("Server", server)

		if production {
			h.Set("Strict-Transport-Security", hstsPolicy)
		}

		path := c.Request.URL.Path
		for _, prefix := range privatePrefixes {
			if strings.HasPrefix(path, prefix) {
				h.Set("Cache-Control", "no-store")
				h.Add("Vary", "Cookie")
				break
			}
		}

		c.Next()
	}
}
