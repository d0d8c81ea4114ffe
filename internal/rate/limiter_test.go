package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
)

func TestMemoryLimiterBlocksAfterMax(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	defer l.Close()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i+1)
	}
	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, 20*time.Second)

	other, err := l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, other.Allowed, "keys are independent")

	now = now.Add(20 * time.Second)
	res, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Allowed, "one token refilled")
}

func TestResultMath(t *testing.T) {
	res := result(5, 3, 0, 30*time.Second)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.Equal(t, 30*time.Second, res.RetryAfter)

	res = result(2, 3, 10*time.Second, time.Minute)
	require.True(t, res.Allowed)
	require.Equal(t, int64(1), res.Remaining)
}

func TestForCacheUsesMemoryWithoutRedis(t *testing.T) {
	l := ForCache(cache.NewMemory("", 0), "rl:", 10, time.Minute)
	require.IsType(t, &MemoryLimiter{}, l)
	_ = l.(*MemoryLimiter).Close()
}
