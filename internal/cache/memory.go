package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implements Client on top of go-cache. Compound operations
// (get-and-delete, expire, set mutations) hold mu so they stay atomic.
type memoryClient struct {
	mu     sync.Mutex
	c      *gocache.Cache
	prefix string
}

// NewMemory returns an in-process Client. The janitor sweeps every minute.
func NewMemory(prefix string, defaultTTL time.Duration) Client {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &memoryClient{
		c:      gocache.New(defaultTTL, time.Minute),
		prefix: prefix,
	}
}

func (m *memoryClient) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

// remaining keeps the entry's current deadline when rewriting it.
func remaining(exp time.Time) time.Duration {
	if exp.IsZero() {
		return gocache.NoExpiration
	}
	if d := time.Until(exp); d > 0 {
		return d
	}
	return time.Nanosecond
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(m.key(key), value, expiration(ttl))
	return nil
}

// Delete takes mu so it cannot land between the read and the write of
// Expire or Replace.
func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Replace(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.c.Replace(m.key(key), value, expiration(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryClient) GetAndDelete(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	v, ok := m.c.Get(k)
	if !ok {
		return "", ErrNotFound
	}
	m.c.Delete(k)
	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (m *memoryClient) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	v, ok := m.c.Get(k)
	if !ok {
		return false, nil
	}
	m.c.Set(k, v, expiration(ttl))
	return true, nil
}

func (m *memoryClient) TTL(_ context.Context, key string) (time.Duration, error) {
	_, exp, ok := m.c.GetWithExpiration(m.key(key))
	if !ok {
		return 0, ErrNotFound
	}
	if exp.IsZero() {
		return 0, nil
	}
	return time.Until(exp), nil
}

func (m *memoryClient) SetAdd(_ context.Context, key string, ttl time.Duration, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	set := map[string]struct{}{}
	if v, ok := m.c.Get(k); ok {
		if old, ok := v.(map[string]struct{}); ok {
			for mbr := range old {
				set[mbr] = struct{}{}
			}
		}
	}
	for _, mbr := range members {
		set[mbr] = struct{}{}
	}
	m.c.Set(k, set, expiration(ttl))
	return nil
}

func (m *memoryClient) SetMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(m.key(key))
	if !ok {
		return nil, nil
	}
	set, _ := v.(map[string]struct{})
	out := make([]string, 0, len(set))
	for mbr := range set {
		out = append(out, mbr)
	}
	return out, nil
}

func (m *memoryClient) SetRemove(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	v, exp, ok := m.c.GetWithExpiration(k)
	if !ok {
		return nil
	}
	old, _ := v.(map[string]struct{})
	set := make(map[string]struct{}, len(old))
	for mbr := range old {
		set[mbr] = struct{}{}
	}
	for _, mbr := range members {
		delete(set, mbr)
	}
	if len(set) == 0 {
		m.c.Delete(k)
		return nil
	}
	m.c.Set(k, set, remaining(exp))
	return nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
