// Package session stores server-side login sessions in the cache.
//
// The raw session id lives only in the client's cookie. Records are keyed
// by its digest ("session:<sha256>") and indexed per user
// ("user_sessions:<userID>") so a user's sessions can be listed and revoked.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/token"
)

const (
	keyPrefix       = "session:"
	userIndexPrefix = "user_sessions:"

	DefaultTTL           = 24 * time.Hour
	DefaultTouchInterval = 5 * time.Minute
)

var ErrNotFound = errors.New("session: not found")

// Session is the stored record. ID is the raw sid and is never serialized.
type Session struct {
	ID  string `json:"-"`
	Key string `json:"-"`

	UserID         string                     `json:"user_id"`
	Email          string                     `json:"email"`
	IsSuperuser    bool                       `json:"is_superuser"`
	TenantIDs      []string                   `json:"tenant_ids"`
	Roles          []string                   `json:"roles"`
	Memberships    []repository.Membership    `json:"memberships"`
	ClientGrants   []repository.ClientGrant   `json:"client_grants"`
	ClientAccounts []repository.ClientAccount `json:"client_accounts"`
	ActiveTenant   *string                    `json:"active_tenant"`

	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// HasTenant reports whether tenantID is one of the session's membership tenants.
func (s *Session) HasTenant(tenantID string) bool {
	for _, t := range s.TenantIDs {
		if t == tenantID {
			return true
		}
	}
	return false
}

// NewSession is what login hands to Create.
type NewSession struct {
	UserID         string
	Email          string
	IsSuperuser    bool
	Memberships    []repository.Membership
	ClientGrants   []repository.ClientGrant
	ClientAccounts []repository.ClientAccount
	ActiveTenant   *string
	IP             string
	UserAgent      string
}

// Store is the cache-backed session store.
type Store struct {
	cache         cache.Client
	ttl           time.Duration
	touchInterval time.Duration
	now           func() time.Time
}

type Options struct {
	TTL           time.Duration
	TouchInterval time.Duration
	Now           func() time.Time
}

func NewStore(c cache.Client, opts Options) *Store {
	s := &Store{cache: c, ttl: opts.TTL, touchInterval: opts.TouchInterval, now: opts.Now}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.touchInterval <= 0 {
		s.touchInterval = DefaultTouchInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// TTL is the lifetime given to new and touched sessions.
func (s *Store) TTL() time.Duration { return s.ttl }

// KeyFor returns the public key (digest) of a raw sid.
func KeyFor(sid string) string { return token.Digest(sid) }

// Create persists a new session and returns its raw id.
func (s *Store) Create(ctx context.Context, in NewSession) (string, *Session, error) {
	sid, err := token.GenerateOpaque(token.SessionIDBytes)
	if err != nil {
		return "", nil, fmt.Errorf("session: generate id: %w", err)
	}
	now := s.now().UTC()
	sess := &Session{
		ID:             sid,
		Key:            KeyFor(sid),
		UserID:         in.UserID,
		Email:          in.Email,
		IsSuperuser:    in.IsSuperuser,
		Memberships:    in.Memberships,
		ClientGrants:   in.ClientGrants,
		ClientAccounts: in.ClientAccounts,
		ActiveTenant:   in.ActiveTenant,
		IP:             in.IP,
		UserAgent:      in.UserAgent,
		CreatedAt:      now,
		LastSeenAt:     now,
		ExpiresAt:      now.Add(s.ttl),
	}
	sess.TenantIDs, sess.Roles = tenantsAndRoles(in.Memberships)

	if err := s.save(ctx, sess); err != nil {
		return "", nil, err
	}
	return sid, sess, nil
}

// Get loads the session for a raw sid.
func (s *Store) Get(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return nil, ErrNotFound
	}
	sess, err := s.load(ctx, KeyFor(sid))
	if err != nil {
		return nil, err
	}
	sess.ID = sid
	return sess, nil
}

// Touch slides the expiry forward. Writes happen at most once per touch
// interval; it reports whether the record was rewritten. The rewrite only
// lands on a record that still exists, so a session deleted while a request
// held it stays deleted and Touch returns ErrNotFound.
func (s *Store) Touch(ctx context.Context, sess *Session) (bool, error) {
	now := s.now().UTC()
	if now.Sub(sess.LastSeenAt) < s.touchInterval {
		return false, nil
	}
	next := *sess
	next.LastSeenAt = now
	next.ExpiresAt = now.Add(s.ttl)
	b, err := json.Marshal(&next)
	if err != nil {
		return false, fmt.Errorf("session: encode: %w", err)
	}
	ok, err := s.cache.Replace(ctx, keyPrefix+sess.Key, string(b), s.ttl)
	if err != nil {
		return false, fmt.Errorf("session: touch: %w", err)
	}
	if !ok {
		return false, ErrNotFound
	}
	if _, err := s.cache.Expire(ctx, userIndexPrefix+sess.UserID, s.ttl); err != nil {
		logger.From(ctx).Warn("session: index ttl refresh failed", logger.UserID(sess.UserID), logger.Err(err))
	}
	sess.LastSeenAt, sess.ExpiresAt = next.LastSeenAt, next.ExpiresAt
	return true, nil
}

// Delete removes the session for a raw sid. Absent sessions are not an error.
func (s *Store) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	key := KeyFor(sid)
	sess, err := s.load(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.cache.Delete(ctx, keyPrefix+key); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	if sess != nil {
		if err := s.cache.SetRemove(ctx, userIndexPrefix+sess.UserID, key); err != nil {
			logger.From(ctx).Warn("session: index cleanup failed", logger.UserID(sess.UserID), logger.Err(err))
		}
	}
	return nil
}

// ListForUser returns the user's live sessions, newest first. Index entries
// whose records already expired are pruned.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Session, error) {
	keys, err := s.cache.SetMembers(ctx, userIndexPrefix+userID)
	if err != nil {
		return nil, fmt.Errorf("session: list: %w", err)
	}
	out := make([]*Session, 0, len(keys))
	var stale []string
	for _, k := range keys {
		sess, err := s.load(ctx, k)
		if errors.Is(err, ErrNotFound) {
			stale = append(stale, k)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if len(stale) > 0 {
		if err := s.cache.SetRemove(ctx, userIndexPrefix+userID, stale...); err != nil {
			logger.From(ctx).Warn("session: prune index failed", logger.UserID(userID), logger.Err(err))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteByID revokes one of the user's sessions by its public key.
func (s *Store) DeleteByID(ctx context.Context, userID, key string) error {
	keys, err := s.cache.SetMembers(ctx, userIndexPrefix+userID)
	if err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	if !contains(keys, key) {
		return ErrNotFound
	}
	if err := s.cache.Delete(ctx, keyPrefix+key); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	return s.cache.SetRemove(ctx, userIndexPrefix+userID, key)
}

// DeleteAllForUser revokes every session of the user and returns how many
// index entries were removed. Only the keys read here leave the index, so a
// session created concurrently stays listed and revocable.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	keys, err := s.cache.SetMembers(ctx, userIndexPrefix+userID)
	if err != nil {
		return 0, fmt.Errorf("session: revoke all: %w", err)
	}
	for _, k := range keys {
		if err := s.cache.Delete(ctx, keyPrefix+k); err != nil {
			return 0, fmt.Errorf("session: revoke all: %w", err)
		}
	}
	if len(keys) > 0 {
		if err := s.cache.SetRemove(ctx, userIndexPrefix+userID, keys...); err != nil {
			return 0, fmt.Errorf("session: revoke all: %w", err)
		}
	}
	return len(keys), nil
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.cache.Set(ctx, keyPrefix+sess.Key, string(b), s.ttl); err != nil {
		return fmt.Errorf("session: store: %w", err)
	}
	if err := s.cache.SetAdd(ctx, userIndexPrefix+sess.UserID, s.ttl, sess.Key); err != nil {
		return fmt.Errorf("session: index: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, key string) (*Session, error) {
	raw, err := s.cache.Get(ctx, keyPrefix+key)
	if cache.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	sess.Key = key
	return &sess, nil
}

func tenantsAndRoles(ms []repository.Membership) (tenants, roles []string) {
	tenants, roles = []string{}, []string{}
	for _, m := range ms {
		if !contains(tenants, m.TenantID) {
			tenants = append(tenants, m.TenantID)
		}
		if !contains(roles, m.Role) {
			roles = append(roles, m.Role)
		}
	}
	return tenants, roles
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
