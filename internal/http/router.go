// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/config"
	"github.com/mesworks/go-mes-backend/internal/http/handlers"
	"github.com/mesworks/go-mes-backend/internal/http/middleware"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS, compression, health and metrics endpoints, and then mounts the
// versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip compression
//  8. Rate limiter (per client IP)
//  9. CORS
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression (taxonomy lists compress well)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := handlers.New(db)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Equipment types
		api.POST("/equipment-types", h.CreateEquipmentType)
		api.POST("/equipment-types/bulk", h.BulkCreateEquipmentTypes)
		api.GET("/equipment-types", h.ListEquipmentTypes)
		api.GET("/equipment-types/:id", h.GetEquipmentType)
		api.GET("/equipment-types/:id/equipment", h.ListEquipmentOfType)
		api.PUT("/equipment-types/:id/name", h.RenameEquipmentType)
		api.DELETE("/equipment-types/:id", h.DeleteEquipmentType)

		// Mode groups
		api.POST("/mode-groups", h.CreateModeGroup)
		api.POST("/mode-groups/bulk", h.BulkCreateModeGroups)
		api.GET("/mode-groups", h.ListModeGroups)
		api.GET("/mode-groups/:id", h.GetModeGroup)
		api.GET("/mode-groups/:id/modes", h.ListModesOfGroup)
		api.PUT("/mode-groups/:id/name", h.RenameModeGroup)
		api.PUT("/mode-groups/:id/description", h.UpdateModeGroupDescription)
		api.DELETE("/mode-groups/:id", h.DeleteModeGroup)

		// Modes
		api.POST("/modes", h.CreateMode)
		api.POST("/modes/bulk", h.BulkCreateModes)
		api.GET("/modes", h.ListModes)
		api.GET("/modes/:id", h.GetMode)
		api.PUT("/modes/:id/description", h.UpdateModeDescription)
		api.PUT("/modes/:id/group", h.MoveMode)
		api.DELETE("/modes/:id", h.DeleteMode)

		// State groups
		api.POST("/state-groups", h.CreateStateGroup)
		api.GET("/state-groups", h.ListStateGroups)
		api.GET("/state-groups/:id", h.GetStateGroup)
		api.GET("/state-groups/:id/states", h.ListStatesOfGroup)
		api.PUT("/state-groups/:id/name", h.RenameStateGroup)
		api.PUT("/state-groups/:id/description", h.UpdateStateGroupDescription)
		api.DELETE("/state-groups/:id", h.DeleteStateGroup)

		// States
		api.POST("/states", h.CreateState)
		api.POST("/states/bulk", h.BulkCreateStates)
		api.GET("/states", h.ListStates)
		api.GET("/states/:id", h.GetState)
		api.PUT("/states/:id/description", h.UpdateStateDescription)
		api.PUT("/states/:id/code", h.UpdateStateCode)
		api.PUT("/states/:id/group", h.MoveState)
		api.DELETE("/states/:id", h.DeleteState)

		// Equipment
		api.POST("/equipment", h.CreateEquipment)
		api.GET("/equipment", h.ListEquipment)
		api.GET("/equipment/:id", h.GetEquipment)
		api.GET("/equipment/:id/path", h.GetEquipmentPath)
		api.GET("/equipment/:id/children", h.ListEquipmentChildren)
		api.PUT("/equipment/:id/name", h.RenameEquipment)
		api.PUT("/equipment/:id/metadata", h.UpdateEquipmentMetadata)
		api.PUT("/equipment/:id/enabled", h.SetEquipmentEnabled)
		api.DELETE("/equipment/:id", h.DeleteEquipment)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
