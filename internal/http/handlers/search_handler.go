package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/http/middleware"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/results"
)

// SearchRequest submits a free-text query.
type SearchRequest struct {
	Query string `json:"query" binding:"required" example:"family suv under 30k"`
}

// SearchResponse is the recorded search and the resulting snapshot.
type SearchResponse struct {
	Search   *domain.Search   `json:"search"`
	Snapshot results.Snapshot `json:"snapshot"`
}

// ListSearchesResponse is a page of a session's search history.
type ListSearchesResponse struct {
	Searches   []domain.Search `json:"searches"`
	Pagination Pagination      `json:"pagination"`
}

// PostSearch godoc
// @ID          postSearch
// @Summary     Run a query
// @Description Sends the query to the recommendation service and replaces the session's results.
// @Description With an Idempotency-Key header, a retry returns the stored search with Idempotency-Replayed: true.
// @Description A failed call leaves the previous results in place and answers 502.
// @Tags        Searches
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  string  false  "User ID"  example(user123)
// @Param       Idempotency-Key  header  string  false  "Retry key"
// @Param       id               path    string  true   "Session ID"  format(uuid)
// @Param       body             body    handlers.SearchRequest  true  "Query"
// @Success     201  {object}  handlers.SearchResponse
// @Success     200  {object}  handlers.SearchResponse  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "stale_response"
// @Failure     429  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse  "recommendation_failed"
// @Router      /sessions/{id}/searches [post]
func (h *Handlers) PostSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query required")
		return
	}
	id := c.Param("id")
	key, _ := middleware.GetIdempotencyKey(c)

	res, err := h.svc.Search(c.Request.Context(), userID(c), id, req.Query, key)
	if err != nil {
		failErr(c, err)
		return
	}
	status := http.StatusCreated
	if res.Replayed {
		c.Header("Idempotency-Replayed", "true")
		status = http.StatusOK
	}
	c.Header("ETag", snapshotETag(id, res.Snapshot))
	ok(c, status, SearchResponse{Search: res.Search, Snapshot: res.Snapshot})
}

// ListSearches godoc
// @ID          listSearches
// @Summary     Search history (paginated)
// @Description Returns the session's searches, newest first. Supports a weak ETag.
// @Tags        Searches
// @Produce     json
// @Param       X-User-ID      header  string  false  "User ID"  example(user123)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       id             path    string  true   "Session ID"  format(uuid)
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListSearchesResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/searches [get]
func (h *Handlers) ListSearches(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	page, pageSize := pageParams(c)

	items, total, err := h.svc.History(ctx, userID(c), id, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	if h.db != nil {
		if count, maxTS, err := repo.SearchesStats(ctx, h.db, id); err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			if notModified(c, fmt.Sprintf(`W/"searches:%s:%d:%d:%d:%d"`, id, count, ts, page, pageSize)) {
				return
			}
		}
	}
	ok(c, http.StatusOK, ListSearchesResponse{Searches: items, Pagination: newPagination(page, pageSize, total)})
}

// GetSearch godoc
// @ID          getSearch
// @Summary     Get one search
// @Tags        Searches
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       searchID   path    string  true   "Search ID"   format(uuid)
// @Success     200  {object}  domain.Search
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/searches/{searchID} [get]
func (h *Handlers) GetSearch(c *gin.Context) {
	s, err := h.svc.GetSearch(c.Request.Context(), userID(c), c.Param("id"), c.Param("searchID"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}
