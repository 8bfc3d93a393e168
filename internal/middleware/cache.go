package middleware

import (
	"github.com/gin-gonic/gin"
)

// Cache-Control values used by the router.
const (
	// CacheImmutable suits uploaded blobs: keys are random and never rewritten.
	CacheImmutable = "public, max-age=31536000, immutable"
	// CacheNoStore keeps per-user JSON out of shared caches.
	CacheNoStore = "private, no-store"
)

// CacheControl sets the Cache-Control header on every response of the group.
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
