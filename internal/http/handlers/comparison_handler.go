package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-motormony/internal/services"
)

// ComparisonRequest references a vehicle by working-collection index or by
// name. Index wins when both are given.
type ComparisonRequest struct {
	Index *int   `json:"index" example:"3"`
	Name  string `json:"name" example:"Toyota RAV4 Hybrid"`
}

// ToggleComparisonRequest sets a vehicle's membership in the comparison set.
type ToggleComparisonRequest struct {
	ComparisonRequest
	Compared *bool `json:"compared" binding:"required" example:"true"`
}

func (r ComparisonRequest) ref() (services.VehicleRef, bool) {
	name := strings.TrimSpace(r.Name)
	if r.Index == nil && name == "" {
		return services.VehicleRef{}, false
	}
	if r.Index != nil && *r.Index < 0 {
		return services.VehicleRef{}, false
	}
	return services.VehicleRef{Index: r.Index, Name: name}, true
}

// AddComparison godoc
// @ID          addComparison
// @Summary     Add a vehicle to the comparison set
// @Description Appends a vehicle (at most 4). A full set answers comparison_full, a duplicate already_compared.
// @Tags        Comparison
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       body       body    handlers.ComparisonRequest  true  "Vehicle reference"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "comparison_full or already_compared"
// @Router      /sessions/{id}/comparison [post]
func (h *Handlers) AddComparison(c *gin.Context) {
	var req ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ref, valid := req.ref()
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "index or name required")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.AddComparison(c.Request.Context(), userID(c), id, ref)
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}

// ToggleComparison godoc
// @ID          toggleComparison
// @Summary     Set comparison membership
// @Description compared=true adds the vehicle, compared=false removes it. Removing a vehicle that is not compared is a no-op.
// @Tags        Comparison
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       body       body    handlers.ToggleComparisonRequest  true  "Vehicle reference and membership"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/comparison [put]
func (h *Handlers) ToggleComparison(c *gin.Context) {
	var req ToggleComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "compared required")
		return
	}
	ref, valid := req.ref()
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "index or name required")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.ToggleComparison(c.Request.Context(), userID(c), id, ref, *req.Compared)
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}

// RemoveComparison godoc
// @ID          removeComparison
// @Summary     Remove a comparison entry by position
// @Description An out-of-range position leaves the set unchanged.
// @Tags        Comparison
// @Produce     json
// @Param       X-User-ID  header  string  false  "User ID"  example(user123)
// @Param       id         path    string  true   "Session ID"  format(uuid)
// @Param       pos        path    int     true   "Position in the comparison set"  minimum(0)
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /sessions/{id}/comparison/{pos} [delete]
func (h *Handlers) RemoveComparison(c *gin.Context) {
	pos, valid := intParam(c, "pos")
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pos must be a non-negative integer")
		return
	}
	id := c.Param("id")
	snap, err := h.svc.RemoveComparison(c.Request.Context(), userID(c), id, pos)
	if err != nil {
		failErr(c, err)
		return
	}
	okSnapshot(c, id, snap)
}
