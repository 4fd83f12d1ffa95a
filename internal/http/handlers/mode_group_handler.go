// Mode group HTTP handlers.
//
// Endpoints:
//   - POST   /mode-groups                 (create)
//   - POST   /mode-groups/bulk            (bulk create, skips duplicates)
//   - GET    /mode-groups                 (paginated list, optional ?search=)
//   - GET    /mode-groups/:id             (fetch)
//   - GET    /mode-groups/:id/modes       (members)
//   - PUT    /mode-groups/:id/name        (rename)
//   - PUT    /mode-groups/:id/description (update description)
//   - DELETE /mode-groups/:id             (delete, rejected while non-empty)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/services"
)

// CreateGroupRequest is the JSON payload for creating a mode or state group.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required" example:"Line Modes"`
	Description string `json:"description" binding:"required" example:"Operating modes for packaging lines"`
}

// RenameGroupRequest is the JSON payload for renaming a group.
type RenameGroupRequest struct {
	Name string `json:"name" binding:"required" example:"Cell Modes"`
}

// UpdateDescriptionRequest is the JSON payload for replacing a description.
type UpdateDescriptionRequest struct {
	Description string `json:"description" binding:"required" example:"Updated wording"`
}

// CreateModeGroup handles POST /mode-groups.
func (h *Handlers) CreateModeGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.modeGroupSvc.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}

// BulkCreateModeGroupsRequest is the JSON payload for creating several mode
// groups at once.
type BulkCreateModeGroupsRequest struct {
	Groups []services.GroupSpec `json:"groups" binding:"required"`
}

// BulkCreateModeGroups handles POST /mode-groups/bulk. Entries whose name is
// already taken are skipped; the response lists what was created.
func (h *Handlers) BulkCreateModeGroups(c *gin.Context) {
	var req BulkCreateModeGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	created, err := h.modeGroupSvc.BulkCreate(c.Request.Context(), req.Groups)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"created": created})
}

// ListModeGroups handles GET /mode-groups. With ?search= it returns a
// case-insensitive substring match instead of a page.
func (h *Handlers) ListModeGroups(c *gin.Context) {
	ctx := c.Request.Context()

	if term := strings.TrimSpace(c.Query("search")); term != "" {
		items, err := h.modeGroupSvc.SearchByName(ctx, term)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}

	page, perPage := pageParams(c)
	items, total, err := h.modeGroupSvc.ListPage(ctx, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetModeGroup handles GET /mode-groups/:id.
func (h *Handlers) GetModeGroup(c *gin.Context) {
	g, err := h.modeGroupSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// ListModesOfGroup handles GET /mode-groups/:id/modes.
func (h *Handlers) ListModesOfGroup(c *gin.Context) {
	items, err := h.modeSvc.ListForGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items})
}

// RenameModeGroup handles PUT /mode-groups/:id/name.
func (h *Handlers) RenameModeGroup(c *gin.Context) {
	var req RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.modeGroupSvc.UpdateName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// UpdateModeGroupDescription handles PUT /mode-groups/:id/description.
func (h *Handlers) UpdateModeGroupDescription(c *gin.Context) {
	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.modeGroupSvc.UpdateDescription(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// DeleteModeGroup handles DELETE /mode-groups/:id.
func (h *Handlers) DeleteModeGroup(c *gin.Context) {
	if err := h.modeGroupSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
