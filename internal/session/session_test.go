package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T) (*Store, cache.Client, *clock) {
	t.Helper()
	c := cache.NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	clk := &clock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return NewStore(c, Options{Now: clk.Now}), c, clk
}

func TestCreateAndGet(t *testing.T) {
	s, c, _ := newStore(t)
	ctx := context.Background()

	tenant := "t1"
	sid, sess, err := s.Create(ctx, NewSession{
		UserID: "u1",
		Email:  "u1@example.com",
		Memberships: []repository.Membership{
			{TenantID: "t1", Role: "attorney_owner"},
			{TenantID: "t2", Role: "attorney_owner"},
		},
		ActiveTenant: &tenant,
	})
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	require.Equal(t, []string{"t1", "t2"}, sess.TenantIDs)
	require.Equal(t, []string{"attorney_owner"}, sess.Roles)
	require.Equal(t, sess.CreatedAt.Add(DefaultTTL), sess.ExpiresAt)

	// the raw sid is never part of the key
	_, err = c.Get(ctx, keyPrefix+sid)
	require.True(t, cache.IsNotFound(err))
	ttl, err := c.TTL(ctx, keyPrefix+KeyFor(sid))
	require.NoError(t, err)
	require.Greater(t, ttl, 23*time.Hour)

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, sid, got.ID)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "t1", *got.ActiveTenant)
	require.True(t, got.HasTenant("t2"))
	require.False(t, got.HasTenant("t3"))

	_, err = s.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTouchIsRateLimited(t *testing.T) {
	s, _, clk := newStore(t)
	ctx := context.Background()

	sid, sess, err := s.Create(ctx, NewSession{UserID: "u1"})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	touched, err := s.Touch(ctx, sess)
	require.NoError(t, err)
	require.False(t, touched)

	clk.Advance(5 * time.Minute)
	touched, err = s.Touch(ctx, sess)
	require.NoError(t, err)
	require.True(t, touched)

	got, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, clk.Now(), got.LastSeenAt)
	require.Equal(t, clk.Now().Add(DefaultTTL), got.ExpiresAt)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	sid, _, err := s.Create(ctx, NewSession{UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, sid))
	require.NoError(t, s.Delete(ctx, sid))
	require.NoError(t, s.Delete(ctx, ""))

	_, err = s.Get(ctx, sid)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestConcurrentCreatesAreIndependent(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	const n = 8
	sids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid, _, err := s.Create(ctx, NewSession{UserID: "u1"})
			require.NoError(t, err)
			sids[i] = sid
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, sid := range sids {
		require.False(t, seen[sid])
		seen[sid] = true
		_, err := s.Get(ctx, sid)
		require.NoError(t, err)
	}

	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, n)
}

func TestRevocation(t *testing.T) {
	s, _, clk := newStore(t)
	ctx := context.Background()

	first, _, err := s.Create(ctx, NewSession{UserID: "u1", UserAgent: "laptop"})
	require.NoError(t, err)
	clk.Advance(time.Second)
	second, _, err := s.Create(ctx, NewSession{UserID: "u1", UserAgent: "phone"})
	require.NoError(t, err)
	other, _, err := s.Create(ctx, NewSession{UserID: "u2"})
	require.NoError(t, err)

	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "phone", list[0].UserAgent, "newest first")

	require.ErrorIs(t, s.DeleteByID(ctx, "u2", KeyFor(first)), ErrNotFound, "cannot revoke another user's session")
	require.NoError(t, s.DeleteByID(ctx, "u1", KeyFor(first)))
	_, err = s.Get(ctx, first)
	require.ErrorIs(t, err, ErrNotFound)

	n, err := s.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = s.Get(ctx, second)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, other)
	require.NoError(t, err)
}

func TestTouchAfterDeleteDoesNotResurrect(t *testing.T) {
	s, _, clk := newStore(t)
	ctx := context.Background()

	sid, _, err := s.Create(ctx, NewSession{UserID: "u1"})
	require.NoError(t, err)
	clk.Advance(10 * time.Minute)

	// a request loaded the session, then logout removed it
	inFlight, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, sid))

	touched, err := s.Touch(ctx, inFlight)
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, touched)

	_, err = s.Get(ctx, sid)
	require.ErrorIs(t, err, ErrNotFound)
	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestTouchAfterRevokeAllDoesNotResurrect(t *testing.T) {
	s, _, clk := newStore(t)
	ctx := context.Background()

	sid, _, err := s.Create(ctx, NewSession{UserID: "u1"})
	require.NoError(t, err)
	inFlight, err := s.Get(ctx, sid)
	require.NoError(t, err)

	_, err = s.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	clk.Advance(10 * time.Minute)

	_, err = s.Touch(ctx, inFlight)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, sid)
	require.ErrorIs(t, err, ErrNotFound)
}

// racingIndex runs onMembers once, right after the first index read.
type racingIndex struct {
	cache.Client
	once      sync.Once
	onMembers func()
}

func (r *racingIndex) SetMembers(ctx context.Context, key string) ([]string, error) {
	out, err := r.Client.SetMembers(ctx, key)
	r.once.Do(r.onMembers)
	return out, err
}

func TestDeleteAllKeepsConcurrentSessionIndexed(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = mem.Close() })
	rc := &racingIndex{Client: mem}
	s := NewStore(rc, Options{})

	old, _, err := s.Create(ctx, NewSession{UserID: "u1"})
	require.NoError(t, err)

	var fresh string
	rc.onMembers = func() {
		fresh, _, err = s.Create(ctx, NewSession{UserID: "u1", UserAgent: "new device"})
		require.NoError(t, err)
	}

	n, err := s.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.Get(ctx, old)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new device", list[0].UserAgent)
	require.NoError(t, s.DeleteByID(ctx, "u1", KeyFor(fresh)))
}
