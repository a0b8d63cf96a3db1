package v1

import (
	"github.com/gin-gonic/gin"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	cfg      *config.Config
}

func NewRoutes(provider *handlers.Provider, cfg *config.Config) *Routes {
	return &Routes{handlers: provider, cfg: cfg}
}

// Register attaches all v1 routes under the /v1 prefix. Operator endpoints
// are additionally gated behind the ops key.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	uploads := group.Group("/uploads")
	uploads.POST("/track", r.handlers.Lifecycle.TrackUpload)
	uploads.POST("/mark-saved", r.handlers.Lifecycle.MarkSaved)
	uploads.POST("/cleanup", r.handlers.Lifecycle.Cleanup)

	ops := group.Group("/uploads", auth.OpsKeyMiddleware(r.cfg))
	ops.GET("/audit", r.handlers.Lifecycle.Audit)
	ops.POST("/sweep", r.handlers.Lifecycle.Sweep)

	group.POST("/records/:id/reorganize", r.handlers.Lifecycle.Reorganize)
	group.POST("/media/upload", r.handlers.Upload.DirectUpload)
}
