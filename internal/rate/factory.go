package rate

import (
	"time"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
)

// ForCache picks the shared redis limiter when the cache runs on redis and
// an in-process limiter otherwise.
func ForCache(c cache.Client, prefix string, max int, window time.Duration) Limiter {
	if rdb, ok := cache.RedisOf(c); ok {
		return NewRedisLimiter(rdb, prefix, max, window)
	}
	return NewMemoryLimiter(max, window)
}
