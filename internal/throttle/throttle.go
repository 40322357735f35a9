// Package throttle rejects repeated identical commands from the same
// user inside a short cooldown window. The state is volatile: it starts
// empty on boot and needs no durability.
package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Limiter answers whether a (user, command) pair may run right now.
type Limiter interface {
	Allow(ctx context.Context, userID int64, command string) bool
}

// RedisLimiter stores the cooldown marker in Redis with a TTL equal to
// the window. SetNX succeeding means the command is allowed. Redis
// failures fail open: a broken cache must not lock users out.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	log    zerolog.Logger
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration, log zerolog.Logger) *RedisLimiter {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &RedisLimiter{
		rdb:    rdb,
		window: window,
		log:    log.With().Str("component", "throttle").Logger(),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, userID int64, command string) bool {
	key := fmt.Sprintf("throttle:%d:%s", userID, command)
	ok, err := l.rdb.SetNX(ctx, key, "1", l.window).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("throttle check failed, allowing")
		return true
	}
	return ok
}

// MemoryLimiter keeps last-invocation timestamps in a mutex-guarded map.
// Used when Redis is not configured and in tests. Evict trims stale
// entries; a periodic job runs it so the map stays bounded.
type MemoryLimiter struct {
	mu     sync.Mutex
	last   map[string]time.Time
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &MemoryLimiter{
		last:   make(map[string]time.Time),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, userID int64, command string) bool {
	key := fmt.Sprintf("%d:%s", userID, command)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.last[key]; ok && now.Sub(t) < l.window {
		return false
	}
	l.last[key] = now
	return true
}

// Evict drops entries older than the cooldown window.
func (l *MemoryLimiter) Evict() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, t := range l.last {
		if t.Before(cutoff) {
			delete(l.last, key)
		}
	}
}

// Len reports the number of tracked entries.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
