package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/db"
	"github.com/yungbote/work-platform-backend/internal/platform/gcp"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/realtime/bus"
)

type Clients struct {
	Postgres *db.PostgresService
	// Redis is nil when REDIS_ADDR is unset; locks and fan-out then stay in process.
	Redis  goredis.UniversalClient
	Bus    bus.Bus
	Assets gcp.AssetStore
}

func (c Clients) DB() *gorm.DB { return c.Postgres.DB() }

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return Clients{}, fmt.Errorf("init postgres: %w", err)
	}
	out.Postgres = pg
	if err := pg.AutoMigrateAll(); err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("postgres automigrate: %w", err)
	}

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			out.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		out.Redis = rdb
		b, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		out.Bus = b
	} else {
		log.Warn("REDIS_ADDR not set; realtime fan-out and purge locks are process-local")
		out.Bus = bus.NewLocalBus()
	}

	assets, err := gcp.NewAssetStore(ctx, log, cfg.ObjectStorage)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init asset store: %w", err)
	}
	out.Assets = assets
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Assets != nil {
		_ = c.Assets.Close()
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}
