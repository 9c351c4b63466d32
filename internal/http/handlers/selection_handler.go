package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-motormony/internal/results"
)

// SortRequest selects the sort order.
type SortRequest struct {
	Sort string `json:"sort" binding:"required" enums:"score,price-low,price-high,name,year-new,year-old" example:"price-low"`
}

// YearRequest selects the year filter: "all" or a model year, given either
// as a JSON string or number.
type YearRequest struct {
	Year json.RawMessage `json:"year" swaggertype:"string" example:"2021"`
}

// ViewRequest selects the presentation mode.
type ViewRequest struct {
	View string `json:"view" binding:"required" enums:"cards,table" example:"table"`
}

// MoreResponse reports whether another page was revealed.
type MoreResponse struct {
	Advanced bool             `json:"advanced"`
	Snapshot results.Snapshot `json:"snapshot"`
}

// SetSort godoc
// @ID          setSort
// @Summary     Set the sort order
// @Description Re-sorts the filtered results and resets to the first page.
// @Tags        Selections
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       body       body    handlers.SortRequest  true  "Sort order"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/sort [put]
func (h *Handlers) SetSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sort required")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.SetSort(c.Request.Context(), userID(c), id, req.Sort)
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}

// SetYear godoc
// @ID          setYear
// @Summary     Set the year filter
// @Description Filters results to one model year ("all" clears the filter) and resets to the first page.
// @Tags        Selections
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       body       body    handlers.YearRequest  true  "Year filter"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/year [put]
func (h *Handlers) SetYear(c *gin.Context) {
	var req YearRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Year) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "year required")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.SetYear(c.Request.Context(), userID(c), id, yearText(req.Year))
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}

// yearText turns "2021", 2021 or "all" into the text form the service parses.
func yearText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// SetView godoc
// @ID          setView
// @Summary     Set the view mode
// @Tags        Selections
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       body       body    handlers.ViewRequest  true  "View mode"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/view [put]
func (h *Handlers) SetView(c *gin.Context) {
	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "view required")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.SetView(c.Request.Context(), userID(c), id, req.View)
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}

// LoadMore godoc
// @ID          loadMore
// @Summary     Reveal the next page
// @Description Grows the visible results by one page. advanced is false when everything was already visible.
// @Tags        Selections
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Success     200  {object}  handlers.MoreResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/more [post]
func (h *Handlers) LoadMore(c *gin.Context) {
	id := c.Param("id")
	snap, advanced, err := h.svc.LoadMore(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header("ETag", snapshotETag(id, snap))
	ok(c, http.StatusOK, MoreResponse{Advanced: advanced, Snapshot: snap})
}

// ExplainVehicle godoc
// @ID          explainVehicle
// @Summary     Explain a recommendation
// @Description Describes why the vehicle at a working-collection index fits the current query intent.
// @Tags        Selections
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       index      path    int     true   "Index into the filtered, sorted results"  minimum(0)
// @Success     200  {object}  intent.Explanation
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/vehicles/{index}/explanation [get]
func (h *Handlers) ExplainVehicle(c *gin.Context) {
	idx, valid := intParam(c, "index")
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "index must be a non-negative integer")
		return
	}
	exp, err := h.svc.Explain(c.Request.Context(), userID(c), c.Param("id"), idx)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, exp)
}
