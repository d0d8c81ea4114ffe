// Package cache abstracts the ephemeral key-value store that backs sessions,
// invite tokens and rate counters.
//
// Two drivers:
//   - memory: in-process (patrickmn/go-cache), dev and tests
//   - redis: shared across instances (redis/go-redis), production
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client are the operations the rest of the app needs. A ttl of 0 means no expiry.
type Client interface {
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error

	// GetAndDelete atomically reads and removes a key.
	GetAndDelete(ctx context.Context, key string) (string, error)

	// Replace overwrites an existing key (SET XX). Reports false, and
	// writes nothing, if the key is absent.
	Replace(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Expire resets the TTL of an existing key. Reports false if absent.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TTL returns the remaining lifetime, ErrNotFound if absent, 0 if persistent.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Sets, used for secondary indexes (user → sessions).
	SetAdd(ctx context.Context, key string, ttl time.Duration, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetRemove(ctx context.Context, key string, members ...string) error

	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a driver.
type Config struct {
	Driver     string // "memory" | "redis"
	Addr       string // host:port
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration // memory only: janitor default
}

// ErrNotFound is returned for missing keys.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New builds a Client for cfg.Driver.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
