package middleware

import (
	"github.com/gin-gonic/gin"
)

const requestURIKey = "request.uri"

// GetRequestURI returns the absolute URL of the current request as
// reconstructed by NewRequestURIMiddleware.
func GetRequestURI(c *gin.Context) string {
	if requestURI, ok := c.Get(requestURIKey); ok {
		return requestURI.(string)
	}
	return c.Request.RequestURI
}

// NewRequestURIMiddleware stores the absolute request URL in the gin
// context. The CAS service URL must be derived deterministically from the
// incoming request: scheme first, then host, then path with query.
func NewRequestURIMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// URL.RequestURI() is always in origin form, even when the
		// client sent an absolute-form request target
		c.Set(requestURIKey, scheme(c)+c.Request.Host+c.Request.URL.RequestURI())
		c.Next()
	}
}

func scheme(c *gin.Context) string {
	if c.Request.Host == "" {
		return ""
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto + "://"
	}
	if c.Request.TLS != nil {
		return "https://"
	}
	return "http://"
}
