package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/modules/contextroles"
	"github.com/yungbote/work-platform-backend/internal/modules/purge"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	ContextRoles contextroles.Usecases
	Purge        purge.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.Auth)
	if err != nil {
		return Services{}, fmt.Errorf("init auth: %w", err)
	}

	registry := contextroles.DefaultRegistry()
	if cfg.RoleRegistryPath != "" {
		registry, err = contextroles.LoadRegistry(cfg.RoleRegistryPath)
		if err != nil {
			return Services{}, fmt.Errorf("load role registry: %w", err)
		}
	}
	log.Info("context role registry loaded", "roles", registry.Len(), "required", len(registry.RequiredRoles()))

	var locker purge.Locker
	if c.Redis != nil {
		locker = purge.NewRedisLocker(log, c.Redis, cfg.PurgeLockTTL)
	} else {
		locker = purge.NewLocalLocker()
	}

	roles := contextroles.New(contextroles.UsecasesDeps{
		DB:            db,
		Log:           log,
		Projects:      r.Projects,
		Baskets:       r.Baskets,
		Blocks:        r.Blocks,
		Relationships: r.Relationships,
		Registry:      registry,
	})

	pu := purge.New(purge.UsecasesDeps{
		DB:        db,
		Log:       log,
		Projects:  r.Projects,
		Blocks:    r.Blocks,
		RawDumps:  r.RawDumps,
		Queue:     r.Queue,
		Assets:    r.Assets,
		Schedules: r.Schedules,
		Jobs:      r.Jobs,
		Locker:    locker,
		Publisher: c.Bus,
		Objects:   c.Assets,
		Atomic:    cfg.PurgeAtomic,
	})

	return Services{Auth: auth, ContextRoles: roles, Purge: pu}, nil
}
