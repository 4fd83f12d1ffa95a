// State group HTTP handlers.
//
// Endpoints:
//   - POST   /state-groups                  (create)
//   - GET    /state-groups                  (paginated list, optional ?search=)
//   - GET    /state-groups/:id              (fetch)
//   - GET    /state-groups/:id/states       (members; optional code range)
//   - PUT    /state-groups/:id/name         (rename)
//   - PUT    /state-groups/:id/description  (update description)
//   - DELETE /state-groups/:id              (delete, rejected while non-empty)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/utils"
)

// CreateStateGroup handles POST /state-groups.
func (h *Handlers) CreateStateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.stateGroupSvc.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}

// ListStateGroups handles GET /state-groups. With ?search= it returns a
// case-insensitive substring match instead of a page.
func (h *Handlers) ListStateGroups(c *gin.Context) {
	ctx := c.Request.Context()

	if term := strings.TrimSpace(c.Query("search")); term != "" {
		items, err := h.stateGroupSvc.SearchByName(ctx, term)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}

	page, perPage := pageParams(c)
	items, total, err := h.stateGroupSvc.ListPage(ctx, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetStateGroup handles GET /state-groups/:id.
func (h *Handlers) GetStateGroup(c *gin.Context) {
	g, err := h.stateGroupSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// ListStatesOfGroup handles GET /state-groups/:id/states. When min_code and
// max_code are both given, only states within the inclusive range are
// returned.
func (h *Handlers) ListStatesOfGroup(c *gin.Context) {
	ctx := c.Request.Context()
	groupID := c.Param("id")

	minCode := utils.AtoiPtr(c.Query("min_code"))
	maxCode := utils.AtoiPtr(c.Query("max_code"))
	if minCode != nil && maxCode != nil {
		items, err := h.stateSvc.ListByCodeRange(ctx, groupID, *minCode, *maxCode)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}

	items, err := h.stateSvc.ListForGroup(ctx, groupID)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items})
}

// RenameStateGroup handles PUT /state-groups/:id/name.
func (h *Handlers) RenameStateGroup(c *gin.Context) {
	var req RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.stateGroupSvc.UpdateName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// UpdateStateGroupDescription handles PUT /state-groups/:id/description.
func (h *Handlers) UpdateStateGroupDescription(c *gin.Context) {
	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.stateGroupSvc.UpdateDescription(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// DeleteStateGroup handles DELETE /state-groups/:id.
func (h *Handlers) DeleteStateGroup(c *gin.Context) {
	if err := h.stateGroupSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
