// Handler wiring and shared pagination DTOs.
//
// Handlers are transport-thin: they parse and bind input, delegate to the
// application services, and translate results into HTTP responses via the
// shared helpers in response.go and errors.go. No business rule lives here.
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/services"
	"github.com/mesworks/go-mes-backend/internal/utils"
)

// Handlers groups the HTTP endpoints for equipment, equipment types, and the
// mode/state taxonomies.
type Handlers struct {
	typeSvc       *services.EquipmentTypeService
	modeGroupSvc  *services.ModeGroupService
	modeSvc       *services.ModeService
	stateGroupSvc *services.StateGroupService
	stateSvc      *services.StateService
	equipSvc      *services.EquipmentService
}

// New constructs a Handlers instance with all services bound to db.
func New(db *gorm.DB) *Handlers {
	return &Handlers{
		typeSvc:       services.NewEquipmentTypeService(db),
		modeGroupSvc:  services.NewModeGroupService(db),
		modeSvc:       services.NewModeService(db),
		stateGroupSvc: services.NewStateGroupService(db),
		stateSvc:      services.NewStateService(db),
		equipSvc:      services.NewEquipmentService(db),
	}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// PageResponse wraps a page of items and pagination information.
type PageResponse struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// pageParams reads the page and per_page query parameters with defaults.
// Range validation is the service layer's job; out-of-range values surface as
// 400 validation_failed rather than being silently clamped.
func pageParams(c *gin.Context) (page, perPage int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	perPage = utils.AtoiDefault(c.Query("per_page"), 20)
	return
}

// pageOf assembles the standard paginated envelope.
func pageOf(items any, page, perPage int, total int64) PageResponse {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return PageResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
}
