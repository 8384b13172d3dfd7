package app

import (
	"time"

	"github.com/yungbote/work-platform-backend/internal/data/db"
	"github.com/yungbote/work-platform-backend/internal/modules/purge"
	"github.com/yungbote/work-platform-backend/internal/observability"
	"github.com/yungbote/work-platform-backend/internal/platform/envutil"
	"github.com/yungbote/work-platform-backend/internal/platform/gcp"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/realtime/bus"
	"github.com/yungbote/work-platform-backend/internal/services"
)

type Config struct {
	Port    string
	LogMode string

	Auth     services.AuthConfig
	Postgres db.PostgresConfig

	RedisAddr    string
	RedisChannel string

	PurgeAtomic  bool
	PurgeLockTTL time.Duration

	ObjectStorage gcp.ObjectStorageConfig

	// RoleRegistryPath overrides the embedded context role registry.
	RoleRegistryPath string
	AllowedOrigins   []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	storage, err := gcp.ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		Auth: services.AuthConfig{
			JWTSecret: envutil.FirstString("", "SUPABASE_JWT_SECRET", "JWT_SECRET_KEY"),
			Audience:  envutil.String("JWT_AUDIENCE", ""),
			Issuer:    envutil.String("JWT_ISSUER", ""),
		},
		Postgres: db.PostgresConfig{
			DSN:          envutil.String("POSTGRES_DSN", ""),
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "work_platform"),
			SSLMode:      envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLife:  envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		RedisAddr:        envutil.String("REDIS_ADDR", ""),
		RedisChannel:     envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		PurgeAtomic:      envutil.Bool("PURGE_ATOMIC", false),
		PurgeLockTTL:     envutil.Duration("PURGE_LOCK_TTL", purge.DefaultLockTTL),
		ObjectStorage:    storage,
		RoleRegistryPath: envutil.String("CONTEXT_ROLE_REGISTRY_PATH", ""),
		AllowedOrigins:   envutil.List("CORS_ALLOWED_ORIGINS", nil),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", observability.DefaultServiceName),
			Environment: envutil.String("APP_ENV", ""),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	log.Info("config loaded",
		"port", cfg.Port,
		"redis", cfg.RedisAddr != "",
		"purge_atomic", cfg.PurgeAtomic,
		"object_storage", cfg.ObjectStorage.Mode,
	)
	return cfg, nil
}
