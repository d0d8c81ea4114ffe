// Package invite issues and consumes one-time activation tokens.
package invite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

const (
	keyPrefix  = "invite:"
	DefaultTTL = 24 * time.Hour
)

var (
	ErrNotFound      = errors.New("invite: token not found or expired")
	ErrMissingUserID = errors.New("invite: payload requires user_id")
)

// Payload is what a token activates.
type Payload struct {
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Key normalizes "abc" and "invite:abc" to "invite:abc".
func Key(tok string) string {
	if strings.HasPrefix(tok, keyPrefix) {
		return tok
	}
	return keyPrefix + tok
}

type Store struct {
	cache cache.Client
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(c cache.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: c, ttl: ttl, now: time.Now}
}

// Issue stores p under a fresh token and returns the raw token.
func (s *Store) Issue(ctx context.Context, p Payload) (string, error) {
	if p.UserID == "" {
		return "", ErrMissingUserID
	}
	tok := uuid.NewString()
	p.CreatedAt = s.now().UTC()
	if err := s.put(ctx, Key(tok), p, s.ttl); err != nil {
		return "", err
	}
	logger.From(ctx).Debug("invite issued",
		logger.UserID(p.UserID), logger.TenantID(p.TenantID), logger.Role(p.Role),
		logger.Int("ttl_seconds", int(s.ttl.Seconds())))
	return tok, nil
}

// Resolve returns the payload without consuming the token.
func (s *Store) Resolve(ctx context.Context, tok string) (*Payload, error) {
	if tok == "" {
		return nil, ErrNotFound
	}
	raw, err := s.cache.Get(ctx, Key(tok))
	return decode(raw, err)
}

// Delete drops a token. Absent tokens are fine.
func (s *Store) Delete(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, Key(tok)); err != nil {
		return fmt.Errorf("invite: delete: %w", err)
	}
	return nil
}

// Consumption is a consumed token. Restore puts it back with the lifetime it
// had left, for callers whose follow-up work failed.
type Consumption struct {
	Payload   Payload
	key       string
	remaining time.Duration
	store     *Store
}

// Consume atomically reads and removes the token. A second call for the same
// token returns ErrNotFound.
func (s *Store) Consume(ctx context.Context, tok string) (*Consumption, error) {
	if tok == "" {
		return nil, ErrNotFound
	}
	key := Key(tok)
	// read TTL first; GetAndDelete is what decides who wins
	remaining, err := s.cache.TTL(ctx, key)
	if cache.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invite: ttl: %w", err)
	}
	raw, err := s.cache.GetAndDelete(ctx, key)
	p, err := decode(raw, err)
	if err != nil {
		return nil, err
	}
	return &Consumption{Payload: *p, key: key, remaining: remaining, store: s}, nil
}

func (c *Consumption) Restore(ctx context.Context) error {
	ttl := c.remaining
	if ttl <= 0 {
		ttl = c.store.ttl
	}
	return c.store.put(ctx, c.key, c.Payload, ttl)
}

func (s *Store) put(ctx context.Context, key string, p Payload, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("invite: encode: %w", err)
	}
	if err := s.cache.Set(ctx, key, string(b), ttl); err != nil {
		return fmt.Errorf("invite: store: %w", err)
	}
	return nil
}

func decode(raw string, err error) (*Payload, error) {
	if cache.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invite: load: %w", err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("invite: decode: %w", err)
	}
	return &p, nil
}
