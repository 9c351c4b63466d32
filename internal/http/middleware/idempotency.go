// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key handling for search submissions. The
// middleware validates the header on POST requests under a session, stashes
// the key on the context, and asks an IdempotencyLookup whether the key
// already produced a stored search. Handlers then read:
//   - the validated key (GetIdempotencyKey)
//   - whether the request is a replay (IsReplay)
//
// Persistence stays behind the IdempotencyLookup function type, so the
// middleware never touches the repository directly.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey names the header a client sets to make a search
// submission safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions bounds the accepted header value.
type IdempotencyOptions struct {
	MaxLen  int            // <= 0 means 200
	Pattern *regexp.Regexp // nil means defaultKeyPattern
}

// IdempotencyLookup reports whether a completed search exists for
// (userID, sessionID, key) that is still valid at now.
type IdempotencyLookup func(ctx context.Context, userID, sessionID, key string, now time.Time) (bool, error)

// GetIdempotencyKey returns the validated key, if any.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether the key matched a stored search.
func IsReplay(c *gin.Context) bool { return c.GetBool(ctxKeyIdemReplay) }

// IsRateBypass reports whether the request should skip rate limiting.
func IsRateBypass(c *gin.Context) bool { return c.GetBool(ctxKeyRateBypass) }

// Idempotency validates Idempotency-Key on POST requests under a session
// (":id" route parameter). Other methods pass through untouched. A malformed
// key answers 400. When lookup finds a stored search the request is flagged
// as a replay so the rate limiter lets it through; lookup errors are ignored
// and the request proceeds as new.
func Idempotency(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": GetRequestID(c),
				"code":       "bad_request",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if sessionID := c.Param("id"); lookup != nil && sessionID != "" {
			if hit, err := lookup(c.Request.Context(), UserID(c), sessionID, key, time.Now().UTC()); err == nil && hit {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}
