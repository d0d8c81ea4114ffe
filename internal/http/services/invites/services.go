// Package invites contiene los services que invitan abogados, clientes y
// delegados a un tenant.
package invites

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

var ErrClientNotInTenant = errors.New("client not in active tenant")

// PermissionChecker is the resolver call the delegate flow makes.
type PermissionChecker interface {
	Check(ctx context.Context, caller authz.Caller, clientID string, action authz.Action) (authz.Decision, error)
}

type Deps struct {
	Store    repository.Store
	Invites  *invite.Store
	Hasher   password.Hasher
	Mailer   email.Sender
	Resolver PermissionChecker
	BaseURL  string
}

type Services struct {
	Invites InviteService
}

func NewServices(d Deps) Services {
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	return Services{Invites: NewInviteService(d)}
}
