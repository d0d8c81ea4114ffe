package invite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, cache.Client) {
	t.Helper()
	c := cache.NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return NewStore(c, ttl), c
}

func TestKeyNormalizes(t *testing.T) {
	require.Equal(t, "invite:abc", Key("abc"))
	require.Equal(t, "invite:abc", Key("invite:abc"))
}

func TestIssueRequiresUser(t *testing.T) {
	s, _ := newStore(t, 0)
	_, err := s.Issue(context.Background(), Payload{Role: "attorney_owner"})
	require.ErrorIs(t, err, ErrMissingUserID)
}

func TestIssueResolveConsume(t *testing.T) {
	s, c := newStore(t, time.Hour)
	ctx := context.Background()

	tok, err := s.Issue(ctx, Payload{UserID: "u1", TenantID: "t1", Role: "attorney_owner"})
	require.NoError(t, err)

	ttl, err := c.TTL(ctx, "invite:"+tok)
	require.NoError(t, err)
	require.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	p, err := s.Resolve(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "u1", p.UserID)
	require.False(t, p.CreatedAt.IsZero())

	p, err = s.Resolve(ctx, "invite:"+tok)
	require.NoError(t, err)
	require.Equal(t, "t1", p.TenantID)

	got, err := s.Consume(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "attorney_owner", got.Payload.Role)

	_, err = s.Consume(ctx, tok)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve(ctx, tok)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyAndUnknownTokens(t *testing.T) {
	s, _ := newStore(t, 0)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Consume(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Consume(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestConsumeIsSingleUseUnderContention(t *testing.T) {
	s, _ := newStore(t, 0)
	ctx := context.Background()

	tok, err := s.Issue(ctx, Payload{UserID: "u1", Role: "client_owner"})
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Consume(ctx, tok); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), wins)
}

func TestRestoreReissuesSameToken(t *testing.T) {
	s, c := newStore(t, time.Hour)
	ctx := context.Background()

	tok, err := s.Issue(ctx, Payload{UserID: "u1", ClientID: "c1", Role: "spouse"})
	require.NoError(t, err)

	used, err := s.Consume(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, used.Restore(ctx))

	ttl, err := c.TTL(ctx, Key(tok))
	require.NoError(t, err)
	require.LessOrEqual(t, ttl, time.Hour)
	require.Greater(t, ttl, 50*time.Minute)

	again, err := s.Consume(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "c1", again.Payload.ClientID)
}
