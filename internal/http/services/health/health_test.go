package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type pinger func(context.Context) error

func (p pinger) Ping(ctx context.Context) error { return p(ctx) }

func TestCheck(t *testing.T) {
	ok := pinger(func(context.Context) error { return nil })
	down := pinger(func(context.Context) error { return errors.New("connection refused") })
	slow := pinger(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	rep := NewServices(map[string]Pinger{"database": ok, "cache": ok}, time.Second).Health.Check(context.Background())
	require.Equal(t, "ready", rep.Status)
	require.Equal(t, []Component{{Name: "cache", Status: "ok"}, {Name: "database", Status: "ok"}}, rep.Components)

	rep = NewServices(map[string]Pinger{"database": down, "cache": ok}, time.Second).Health.Check(context.Background())
	require.Equal(t, "unavailable", rep.Status)
	require.Equal(t, "down", rep.Components[1].Status)
	require.Equal(t, "connection refused", rep.Components[1].Error)

	rep = NewServices(map[string]Pinger{"cache": slow}, 20*time.Millisecond).Health.Check(context.Background())
	require.Equal(t, "unavailable", rep.Status)
}
