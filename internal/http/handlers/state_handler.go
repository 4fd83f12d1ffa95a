// State HTTP handlers.
//
// Endpoints:
//   - POST   /states                  (create)
//   - POST   /states/bulk             (bulk create, skips duplicates)
//   - GET    /states                  (paginated, filterable by group_id,
//     description, and inclusive code range)
//   - GET    /states/:id              (fetch)
//   - PUT    /states/:id/description  (update description)
//   - PUT    /states/:id/code         (update numeric code)
//   - PUT    /states/:id/group        (move to another group)
//   - DELETE /states/:id              (delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/repo"
	"github.com/mesworks/go-mes-backend/internal/services"
	"github.com/mesworks/go-mes-backend/internal/utils"
)

// CreateStateRequest is the JSON payload for creating a state.
type CreateStateRequest struct {
	GroupID     string `json:"group_id" binding:"required" format:"uuid"`
	Code        int    `json:"code" example:"1"`
	Description string `json:"description" binding:"required" example:"Running"`
}

// BulkCreateStatesRequest is the JSON payload for bulk creation.
type BulkCreateStatesRequest struct {
	States []services.StateSpec `json:"states" binding:"required"`
}

// UpdateStateCodeRequest is the JSON payload for changing a state's code.
type UpdateStateCodeRequest struct {
	Code int `json:"code" example:"2"`
}

// CreateState handles POST /states.
func (h *Handlers) CreateState(c *gin.Context) {
	var req CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.stateSvc.Create(c.Request.Context(), req.GroupID, req.Code, req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, st)
}

// BulkCreateStates handles POST /states/bulk.
func (h *Handlers) BulkCreateStates(c *gin.Context) {
	var req BulkCreateStatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	created, err := h.stateSvc.BulkCreate(c.Request.Context(), req.States)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"created": created})
}

// ListStates handles GET /states. Supported query parameters: group_id,
// description (substring), min_code, max_code, page, per_page. All predicates
// apply to both the page and the total.
func (h *Handlers) ListStates(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.StateFilter{
		GroupID:     c.Query("group_id"),
		Description: c.Query("description"),
		MinCode:     utils.AtoiPtr(c.Query("min_code")),
		MaxCode:     utils.AtoiPtr(c.Query("max_code")),
	}

	items, total, err := h.stateSvc.Search(c.Request.Context(), f, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetState handles GET /states/:id.
func (h *Handlers) GetState(c *gin.Context) {
	st, err := h.stateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// UpdateStateDescription handles PUT /states/:id/description.
func (h *Handlers) UpdateStateDescription(c *gin.Context) {
	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.stateSvc.UpdateDescription(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// UpdateStateCode handles PUT /states/:id/code.
func (h *Handlers) UpdateStateCode(c *gin.Context) {
	var req UpdateStateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.stateSvc.UpdateCode(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// MoveState handles PUT /states/:id/group.
func (h *Handlers) MoveState(c *gin.Context) {
	var req MoveToGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.stateSvc.MoveToGroup(c.Request.Context(), c.Param("id"), req.GroupID)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// DeleteState handles DELETE /states/:id.
func (h *Handlers) DeleteState(c *gin.Context) {
	if err := h.stateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
