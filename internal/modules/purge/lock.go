package purge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

// ErrLockHeld is returned by TryLock when another holder owns the key.
var ErrLockHeld = errors.New("lock held")

const DefaultLockTTL = 5 * time.Minute

// Locker provides non-blocking mutual exclusion keyed by string.
type Locker interface {
	// TryLock acquires key or fails with ErrLockHeld. The returned func releases it.
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

func basketLockKey(basketID uuid.UUID) string {
	return "purge:basket:" + basketID.String()
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedisLocker locks with SET NX PX so that a crashed holder expires after ttl.
func NewRedisLocker(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &redisLocker{log: log.With("service", "RedisLocker"), rdb: rdb, ttl: ttl}
}

func (l *redisLocker) TryLock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() { l.release(key, token) }, nil
}

// release deletes key if token still owns it. Failures leave the key to expire.
func (l *redisLocker) release(key, token string) {
	rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
		l.log.Warn("redis unlock failed; key held until ttl", "key", key, "ttl", l.ttl, "error", err)
	}
}

type localLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker guards keys within this process only.
func NewLocalLocker() Locker {
	return &localLocker{held: map[string]struct{}{}}
}

func (l *localLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, ErrLockHeld
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
