package app

import (
	apphttp "github.com/yungbote/work-platform-backend/internal/http"
	httpH "github.com/yungbote/work-platform-backend/internal/http/handlers"
	httpMW "github.com/yungbote/work-platform-backend/internal/http/middleware"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/realtime"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	ContextRoles *httpH.ContextRolesHandler
	Purge        *httpH.PurgeHandler
	Realtime     *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		ContextRoles: httpH.NewContextRolesHandler(s.ContextRoles),
		Purge:        httpH.NewPurgeHandler(s.Purge),
		Realtime:     httpH.NewRealtimeHandler(log, hub, r.Projects),
	}
}

func wireServer(log *logger.Logger, cfg Config, s Services, h Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		ServiceName:         cfg.Otel.ServiceName,
		AllowedOrigins:      cfg.AllowedOrigins,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, s.Auth),
		HealthHandler:       h.Health,
		ContextRolesHandler: h.ContextRoles,
		PurgeHandler:        h.Purge,
		RealtimeHandler:     h.Realtime,
	})
}
