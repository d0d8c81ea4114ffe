// Package rate limits requests per key (client IP, login email).
package rate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	rdb "github.com/redis/go-redis/v9"
	xrate "golang.org/x/time/rate"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter is a fixed window shared by every instance (INCR + EXPIRE).
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{
		Client: client,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.Window)
	redisKey := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	// ExpireNX only arms the TTL on the first hit of the window
	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.Window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}
	return result(incr.Val(), l.Max, ttl.Val(), l.Window), nil
}

func result(hits, max int64, ttl, window time.Duration) Result {
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Duration(math.Ceil(window.Seconds())) * time.Second
		}
	}
	return res
}

// MemoryLimiter is a per-key token bucket for single-instance deployments.
// Max tokens refill evenly over Window. Idle buckets are swept.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	idle    time.Duration
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type bucket struct {
	lim  *xrate.Limiter
	seen time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &MemoryLimiter{
		Max:     int64(max),
		Window:  window,
		buckets: map[string]*bucket{},
		idle:    2 * window,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go l.sweep()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		every := l.Window / time.Duration(l.Max)
		b = &bucket{lim: xrate.NewLimiter(xrate.Every(every), int(l.Max))}
		l.buckets[key] = b
	}
	b.seen = now
	l.mu.Unlock()

	if b.lim.AllowN(now, 1) {
		left := int64(math.Floor(b.lim.TokensAt(now)))
		if left < 0 {
			left = 0
		}
		return Result{Allowed: true, Remaining: left, CurrentHits: l.Max - left, WindowTTL: l.Window}, nil
	}
	r := b.lim.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	if wait <= 0 {
		wait = time.Second
	}
	return Result{Allowed: false, CurrentHits: l.Max + 1, RetryAfter: wait, WindowTTL: l.Window}, nil
}

func (l *MemoryLimiter) sweep() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			cutoff := l.now().Add(-l.idle)
			l.mu.Lock()
			for k, b := range l.buckets {
				if b.seen.Before(cutoff) {
					delete(l.buckets, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Close stops the sweeper.
func (l *MemoryLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}
