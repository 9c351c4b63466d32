package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-motormony/internal/http/middleware"
	"github.com/tbourn/go-motormony/internal/results"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Message string `json:"message" example:"session not found"`
}

// fail aborts with the error envelope. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported form of fail for the router's NoRoute/NoMethod hooks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr classifies err and writes the matching envelope. Unclassified
// errors are logged with their cause but not echoed to the client.
func failErr(c *gin.Context, err error) {
	status, code, msg := classify(err)
	if status == http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
	}
	fail(c, status, code, msg)
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// snapshotETag identifies a session state. Revision moves on every visible
// change, generation on every query; the epoch changes whenever the engine is
// rebuilt, since its revision then starts over.
func snapshotETag(sessionID string, snap results.Snapshot) string {
	return fmt.Sprintf(`W/"session:%s:%s:%d:%d"`, sessionID, snap.Epoch, snap.Generation, snap.Revision)
}

// notModified sets ETag and reports whether If-None-Match already matches,
// in which case a 304 has been written.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// okSnapshot writes a snapshot with its ETag.
func okSnapshot(c *gin.Context, sessionID string, snap results.Snapshot) {
	c.Header("ETag", snapshotETag(sessionID, snap))
	ok(c, http.StatusOK, snap)
}
