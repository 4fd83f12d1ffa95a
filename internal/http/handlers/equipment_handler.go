// Equipment HTTP handlers.
//
// Endpoints:
//   - POST   /equipment               (create)
//   - GET    /equipment               (paginated list, optional ?search=, ?enabled=true)
//   - GET    /equipment/:id           (fetch)
//   - GET    /equipment/:id/path      (root-to-node ancestor chain)
//   - GET    /equipment/:id/children  (direct children)
//   - PUT    /equipment/:id/name      (rename)
//   - PUT    /equipment/:id/metadata  (replace metadata document)
//   - PUT    /equipment/:id/enabled   (enable/disable)
//   - DELETE /equipment/:id           (delete, rejected while it has children)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/sysutil"
)

// CreateEquipmentRequest is the JSON payload for creating an equipment node.
type CreateEquipmentRequest struct {
	Name     string         `json:"name" binding:"required" example:"Filler 3"`
	TypeID   string         `json:"type_id" binding:"required" format:"uuid"`
	ParentID *string        `json:"parent_id,omitempty" format:"uuid"`
	Enabled  *bool          `json:"enabled,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RenameEquipmentRequest is the JSON payload for renaming an equipment node.
type RenameEquipmentRequest struct {
	Name string `json:"name" binding:"required" example:"Filler 3B"`
}

// UpdateEquipmentMetadataRequest is the JSON payload for replacing metadata.
type UpdateEquipmentMetadataRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// SetEquipmentEnabledRequest is the JSON payload for flipping the enabled flag.
type SetEquipmentEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// EquipmentPathResponse is the materialized ancestor chain for a node, with
// the conventional hierarchy levels resolved for convenience.
type EquipmentPathResponse struct {
	EquipmentID string             `json:"equipment_id"`
	Depth       int                `json:"depth"`
	Chain       []domain.Equipment `json:"chain"`
	Enterprise  *domain.Equipment  `json:"enterprise,omitempty"`
	Site        *domain.Equipment  `json:"site,omitempty"`
	Area        *domain.Equipment  `json:"area,omitempty"`
	Line        *domain.Equipment  `json:"line,omitempty"`
	Cell        *domain.Equipment  `json:"cell,omitempty"`
	Parent      *domain.Equipment  `json:"parent,omitempty"`
}

// CreateEquipment handles POST /equipment.
func (h *Handlers) CreateEquipment(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	e, err := h.equipSvc.Create(c.Request.Context(), req.Name, req.TypeID, req.ParentID, enabled, req.Metadata)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, e)
}

// ListEquipment handles GET /equipment. With ?search= it returns a
// case-insensitive substring match; with ?enabled=true only enabled nodes.
func (h *Handlers) ListEquipment(c *gin.Context) {
	ctx := c.Request.Context()

	if term := strings.TrimSpace(c.Query("search")); term != "" {
		items, err := h.equipSvc.SearchByName(ctx, term)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}
	if sysutil.IsTruthy(c.Query("enabled")) {
		items, err := h.equipSvc.ListEnabled(ctx)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}

	page, perPage := pageParams(c)
	items, total, err := h.equipSvc.ListPage(ctx, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetEquipment handles GET /equipment/:id.
func (h *Handlers) GetEquipment(c *gin.Context) {
	e, err := h.equipSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// GetEquipmentPath handles GET /equipment/:id/path.
func (h *Handlers) GetEquipmentPath(c *gin.Context) {
	p, err := h.equipSvc.Path(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}

	resp := EquipmentPathResponse{
		EquipmentID: p.EquipmentID,
		Depth:       p.Depth(),
		Chain:       p.Chain,
		Enterprise:  p.Enterprise(),
		Site:        p.Site(),
		Area:        p.Area(),
		Line:        p.Line(),
		Cell:        p.Cell(),
		Parent:      p.Parent(),
	}
	ok(c, http.StatusOK, resp)
}

// ListEquipmentChildren handles GET /equipment/:id/children.
func (h *Handlers) ListEquipmentChildren(c *gin.Context) {
	items, err := h.equipSvc.ListChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items})
}

// RenameEquipment handles PUT /equipment/:id/name.
func (h *Handlers) RenameEquipment(c *gin.Context) {
	var req RenameEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	e, err := h.equipSvc.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// UpdateEquipmentMetadata handles PUT /equipment/:id/metadata.
func (h *Handlers) UpdateEquipmentMetadata(c *gin.Context) {
	var req UpdateEquipmentMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	e, err := h.equipSvc.UpdateMetadata(c.Request.Context(), c.Param("id"), req.Metadata)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// SetEquipmentEnabled handles PUT /equipment/:id/enabled.
func (h *Handlers) SetEquipmentEnabled(c *gin.Context) {
	var req SetEquipmentEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "enabled must be true or false")
		return
	}

	e, err := h.equipSvc.SetEnabled(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// DeleteEquipment handles DELETE /equipment/:id.
func (h *Handlers) DeleteEquipment(c *gin.Context) {
	if err := h.equipSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
