package cache

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// exerciseClient runs the behavior every driver must share.
func exerciseClient(t *testing.T, c Client) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		require.True(t, IsNotFound(err))
	})

	t.Run("set get delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k1", "v1", time.Minute))
		v, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		require.Equal(t, "v1", v)

		require.NoError(t, c.Delete(ctx, "k1"))
		require.NoError(t, c.Delete(ctx, "k1"), "delete of absent key is a no-op")
		_, err = c.Get(ctx, "k1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get and delete is single use", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "once", "payload", time.Minute))
		v, err := c.GetAndDelete(ctx, "once")
		require.NoError(t, err)
		require.Equal(t, "payload", v)

		_, err = c.GetAndDelete(ctx, "once")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expire and ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "touch", "x", 2*time.Second))
		ok, err := c.Expire(ctx, "touch", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		d, err := c.TTL(ctx, "touch")
		require.NoError(t, err)
		require.Greater(t, d, 30*time.Minute)

		ok, err = c.Expire(ctx, "nope", time.Hour)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = c.TTL(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("replace only existing keys", func(t *testing.T) {
		ok, err := c.Replace(ctx, "gone", "v", time.Minute)
		require.NoError(t, err)
		require.False(t, ok)
		_, err = c.Get(ctx, "gone")
		require.ErrorIs(t, err, ErrNotFound, "replace must not create the key")

		require.NoError(t, c.Set(ctx, "live", "v1", time.Minute))
		ok, err = c.Replace(ctx, "live", "v2", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
		v, err := c.Get(ctx, "live")
		require.NoError(t, err)
		require.Equal(t, "v2", v)

		require.NoError(t, c.Delete(ctx, "live"))
		ok, err = c.Replace(ctx, "live", "v3", time.Hour)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("ttl elapses", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", "x", 50*time.Millisecond))
		time.Sleep(120 * time.Millisecond)
		_, err := c.Get(ctx, "short")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sets", func(t *testing.T) {
		require.NoError(t, c.SetAdd(ctx, "idx", time.Minute, "a", "b"))
		require.NoError(t, c.SetAdd(ctx, "idx", time.Minute, "c", "a"))

		got, err := c.SetMembers(ctx, "idx")
		require.NoError(t, err)
		sort.Strings(got)
		require.Equal(t, []string{"a", "b", "c"}, got)

		require.NoError(t, c.SetRemove(ctx, "idx", "a", "c"))
		got, err = c.SetMembers(ctx, "idx")
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, got)

		got, err = c.SetMembers(ctx, "empty-idx")
		require.NoError(t, err)
		require.Empty(t, got)
	})

	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClient(t *testing.T) {
	c := NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	exerciseClient(t, c)
}

func TestMemoryPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemory("a", 0)
	b := NewMemory("b", 0)

	require.NoError(t, a.Set(ctx, "k", "from-a", 0))
	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	d, err := a.TTL(ctx, "k")
	require.NoError(t, err)
	require.Zero(t, d, "ttl 0 means persistent")
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "memcached"})
	require.Error(t, err)
}
