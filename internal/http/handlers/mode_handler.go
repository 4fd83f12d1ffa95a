// Mode HTTP handlers.
//
// Endpoints:
//   - POST   /modes                  (create)
//   - POST   /modes/bulk             (bulk create, skips duplicates)
//   - GET    /modes                  (paginated, filterable by group_id and description)
//   - GET    /modes/:id              (fetch)
//   - PUT    /modes/:id/description  (update description)
//   - PUT    /modes/:id/group        (move to another group)
//   - DELETE /modes/:id              (delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/repo"
	"github.com/mesworks/go-mes-backend/internal/services"
)

// CreateModeRequest is the JSON payload for creating a mode.
type CreateModeRequest struct {
	GroupID     string `json:"group_id" binding:"required" format:"uuid"`
	Description string `json:"description" binding:"required" example:"Production"`
}

// BulkCreateModesRequest is the JSON payload for bulk creation.
type BulkCreateModesRequest struct {
	Modes []services.ModeSpec `json:"modes" binding:"required"`
}

// MoveToGroupRequest is the JSON payload for reassigning a mode or state to
// another group.
type MoveToGroupRequest struct {
	GroupID string `json:"group_id" binding:"required" format:"uuid"`
}

// CreateMode handles POST /modes.
func (h *Handlers) CreateMode(c *gin.Context) {
	var req CreateModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	m, err := h.modeSvc.Create(c.Request.Context(), req.GroupID, req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// BulkCreateModes handles POST /modes/bulk.
func (h *Handlers) BulkCreateModes(c *gin.Context) {
	var req BulkCreateModesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	created, err := h.modeSvc.BulkCreate(c.Request.Context(), req.Modes)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"created": created})
}

// ListModes handles GET /modes. Supported query parameters: group_id,
// description (substring), page, per_page. All predicates apply to both the
// page and the total.
func (h *Handlers) ListModes(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.ModeFilter{
		GroupID:     c.Query("group_id"),
		Description: c.Query("description"),
	}

	items, total, err := h.modeSvc.Search(c.Request.Context(), f, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetMode handles GET /modes/:id.
func (h *Handlers) GetMode(c *gin.Context) {
	m, err := h.modeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// UpdateModeDescription handles PUT /modes/:id/description.
func (h *Handlers) UpdateModeDescription(c *gin.Context) {
	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	m, err := h.modeSvc.UpdateDescription(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// MoveMode handles PUT /modes/:id/group.
func (h *Handlers) MoveMode(c *gin.Context) {
	var req MoveToGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	m, err := h.modeSvc.MoveToGroup(c.Request.Context(), c.Param("id"), req.GroupID)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteMode handles DELETE /modes/:id.
func (h *Handlers) DeleteMode(c *gin.Context) {
	if err := h.modeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
