package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/work-platform-backend/internal/http/handlers"
	httpMW "github.com/yungbote/work-platform-backend/internal/http/middleware"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	ContextRolesHandler *httpH.ContextRolesHandler
	PurgeHandler        *httpH.PurgeHandler
	RealtimeHandler     *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestScope(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Context roles
		if cfg.ContextRolesHandler != nil {
			protected.GET("/projects/:id/context/anchors", cfg.ContextRolesHandler.GetAnchors)
			protected.GET("/projects/:id/context/foundation", cfg.ContextRolesHandler.GetFoundation)
			protected.POST("/projects/:id/context/freshness", cfg.ContextRolesHandler.CheckFreshness)
		}

		// Purge
		if cfg.PurgeHandler != nil {
			protected.GET("/projects/:id/purge/preview", cfg.PurgeHandler.Preview)
			protected.POST("/projects/:id/purge", cfg.PurgeHandler.Purge)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/realtime/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
