// Equipment type HTTP handlers.
//
// Endpoints:
//   - POST   /equipment-types            (create)
//   - POST   /equipment-types/bulk       (bulk create, skips duplicates)
//   - GET    /equipment-types            (paginated list, optional ?search=)
//   - GET    /equipment-types/:id        (fetch)
//   - GET    /equipment-types/:id/equipment (members)
//   - PUT    /equipment-types/:id/name   (rename)
//   - DELETE /equipment-types/:id        (delete, rejected while referenced)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/services"
)

// CreateEquipmentTypeRequest is the JSON payload for creating an equipment type.
type CreateEquipmentTypeRequest struct {
	Name string `json:"name" binding:"required" example:"Line"`
	// Level is the hierarchy ordering label: 1=Enterprise .. 5=Cell, 0=none.
	Level int `json:"level" example:"4"`
}

// BulkCreateEquipmentTypesRequest is the JSON payload for bulk creation.
type BulkCreateEquipmentTypesRequest struct {
	Types []services.TypeSpec `json:"types" binding:"required"`
}

// RenameEquipmentTypeRequest is the JSON payload for renaming a type.
type RenameEquipmentTypeRequest struct {
	Name string `json:"name" binding:"required" example:"Work Cell"`
}

// CreateEquipmentType handles POST /equipment-types.
func (h *Handlers) CreateEquipmentType(c *gin.Context) {
	var req CreateEquipmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	t, err := h.typeSvc.Create(c.Request.Context(), req.Name, req.Level)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// BulkCreateEquipmentTypes handles POST /equipment-types/bulk.
func (h *Handlers) BulkCreateEquipmentTypes(c *gin.Context) {
	var req BulkCreateEquipmentTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	created, err := h.typeSvc.BulkCreate(c.Request.Context(), req.Types)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"created": created})
}

// ListEquipmentTypes handles GET /equipment-types. With ?search= it returns
// a case-insensitive substring match instead of a page.
func (h *Handlers) ListEquipmentTypes(c *gin.Context) {
	ctx := c.Request.Context()

	if term := strings.TrimSpace(c.Query("search")); term != "" {
		items, err := h.typeSvc.SearchByName(ctx, term)
		if err != nil {
			svcError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"items": items})
		return
	}

	page, perPage := pageParams(c)
	items, total, err := h.typeSvc.ListPage(ctx, page, perPage)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(items, page, perPage, total))
}

// GetEquipmentType handles GET /equipment-types/:id.
func (h *Handlers) GetEquipmentType(c *gin.Context) {
	t, err := h.typeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// ListEquipmentOfType handles GET /equipment-types/:id/equipment.
func (h *Handlers) ListEquipmentOfType(c *gin.Context) {
	items, err := h.equipSvc.ListByType(c.Request.Context(), c.Param("id"))
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items})
}

// RenameEquipmentType handles PUT /equipment-types/:id/name.
func (h *Handlers) RenameEquipmentType(c *gin.Context) {
	var req RenameEquipmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	t, err := h.typeSvc.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		svcError(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteEquipmentType handles DELETE /equipment-types/:id.
func (h *Handlers) DeleteEquipmentType(c *gin.Context) {
	if err := h.typeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		svcError(c, err)
		return
	}
	noContent(c)
}
