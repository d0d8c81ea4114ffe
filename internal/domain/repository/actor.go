package repository

import "context"

// Actor is the identity a request acts under. Stores that enforce row-level
// policies read it from the context on every query.
type Actor struct {
	TenantID string
	UserID   string
}

type actorKey struct{}

// WithActor binds the acting identity to ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the acting identity, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
