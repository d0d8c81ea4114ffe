package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrantAllowsIsCaseInsensitive(t *testing.T) {
	g := ClientGrant{Permissions: []string{"READ", " Write "}}
	require.True(t, g.Allows("read"))
	require.True(t, g.Allows("write"))
	require.False(t, g.Allows("delete"))
	require.False(t, ClientGrant{}.Allows("read"))
}

func TestActorRoundTrip(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	require.False(t, ok)

	ctx := WithActor(context.Background(), Actor{TenantID: "t1", UserID: "u1"})
	a, ok := ActorFrom(ctx)
	require.True(t, ok)
	require.Equal(t, Actor{TenantID: "t1", UserID: "u1"}, a)
}

func TestErrorHelpersSeeWrapped(t *testing.T) {
	require.True(t, IsNotFound(fmt.Errorf("pg: get user: %w", ErrNotFound)))
	require.True(t, IsConflict(fmt.Errorf("pg: create user: %w", ErrConflict)))
	require.False(t, IsNotFound(ErrConflict))
}

func TestUserIsActive(t *testing.T) {
	var nilUser *User
	require.False(t, nilUser.IsActive())
	require.False(t, (&User{Status: UserStatusDisabled}).IsActive())
	require.True(t, (&User{Status: UserStatusActive}).IsActive())
}
