package rate

import (
	"context"
	"os"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
)

func TestRedisLimiterFixedWindow(t *testing.T) {
	if testing.Short() || os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("skipping redis integration test")
	}
	ctx := context.Background()

	container, err := testcontainers.Run(ctx, "redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := rdb.NewClient(&rdb.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	l := ForCache(cache.NewRedisFromClient(client, "test"), "rl:", 2, time.Minute)
	require.IsType(t, &RedisLimiter{}, l)
	fixed := time.Now()
	l.(*RedisLimiter).now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "login:a@example.com")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "login:a@example.com")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, int64(3), res.CurrentHits)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, time.Minute)
}
