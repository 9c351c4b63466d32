package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/results"
)

// SessionResponse is a session with its current snapshot.
type SessionResponse struct {
	Session  *domain.Session  `json:"session"`
	Snapshot results.Snapshot `json:"snapshot"`
}

// ListSessionsResponse is a page of the caller's sessions.
type ListSessionsResponse struct {
	Sessions   []domain.Session `json:"sessions"`
	Pagination Pagination       `json:"pagination"`
}

// CreateSession godoc
// @ID          createSession
// @Summary     Create an explorer session
// @Description Starts an empty session (no query, default sort, all years, cards view).
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Success     201  {object}  handlers.SessionResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	sess, snap, err := h.svc.Create(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header("ETag", snapshotETag(sess.ID, snap))
	ok(c, http.StatusCreated, SessionResponse{Session: sess, Snapshot: snap})
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List sessions (paginated)
// @Description Returns a page of the caller's sessions, newest first. Supports a weak ETag.
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID      header  string  false  "User ID"  example(user123)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListSessionsResponse
// @Header      200  {string}  ETag  "Weak ETag"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := pageParams(c)

	if h.db != nil {
		if count, maxTS, err := repo.SessionsStats(ctx, h.db, uid); err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			if notModified(c, fmt.Sprintf(`W/"sessions:%s:%d:%d:%d:%d"`, uid, count, ts, page, pageSize)) {
				return
			}
		}
	}

	items, total, err := h.svc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListSessionsResponse{Sessions: items, Pagination: newPagination(page, pageSize, total)})
}

// GetSession godoc
// @ID          getSession
// @Summary     Get a session snapshot
// @Description Returns the visible results, comparison set and selections. The ETag changes whenever the snapshot does.
// @Tags        Sessions
// @Produce     json
// @Param       X-User-ID      header  string  false  "User ID"  example(user123)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       id             path    string  true   "Session ID"  format(uuid)
// @Success     200  {object}  results.Snapshot
// @Header      200  {string}  ETag  "Weak ETag"
// @Success     304  {string}  string  "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id} [get]
func (h *Handlers) GetSession(c *gin.Context) {
	id := c.Param("id")
	snap, err := h.svc.Snapshot(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	if notModified(c, snapshotETag(id, snap)) {
		return
	}
	ok(c, http.StatusOK, snap)
}
