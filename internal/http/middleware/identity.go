// Package middleware contains the Gin middleware shared by the HTTP layer:
// request correlation, identity, access logging with redaction, panic
// recovery, Prometheus instrumentation, idempotency keys, rate limiting and
// security headers.
package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the caller identity set by the fronting gateway.
	HeaderUserID = "X-User-ID"
	// DefaultUserID is used when no identity header is present.
	DefaultUserID = "demo-user"

	ctxKeyUserID = "userID"
)

var userIDRE = regexp.MustCompile(`^[A-Za-z0-9._@\-]{1,64}$`)

// Identity stores the caller identity from X-User-ID in the context. Missing
// or malformed values fall back to DefaultUserID; authentication itself is
// the gateway's job.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader(HeaderUserID)
		if !userIDRE.MatchString(uid) {
			uid = DefaultUserID
		}
		c.Set(ctxKeyUserID, uid)
		c.Next()
	}
}

// UserID returns the identity stored by Identity, or DefaultUserID.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultUserID
}
