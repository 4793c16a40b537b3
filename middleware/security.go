package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the response headers browsers use to harden the API.
// HSTS is only sent in production, where TLS terminates in front of us.
func SecurityHeaders(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("X-DNS-Prefetch-Control", "off")
		if production {
			h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		}
		c.Next()
	}
}

// BodyLimit caps request bodies at max bytes. Declared oversize bodies are
// refused up front; chunked ones fail while being read.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// NormalizePath strips the first matching deployment prefix (for example a
// serverless function mount or a reverse proxy's /api) before routing, so
// every mount reaches the same route table.
func NormalizePath(next http.Handler, prefixes []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		for _, prefix := range prefixes {
			prefix = strings.TrimRight(prefix, "/")
			if prefix == "" {
				continue
			}
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				stripped := strings.TrimPrefix(path, prefix)
				if stripped == "" {
					stripped = "/"
				}
				r.URL.Path = stripped
				r.URL.RawPath = ""
				break
			}
		}
		next.ServeHTTP(w, r)
	})
}
