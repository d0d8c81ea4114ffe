// Package services is the composition root of the HTTP services. Each
// domain lives in its own sub-package with a Deps, a Services aggregator
// and a NewServices constructor; New wires them all from one Deps.
package services

import (
	"time"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/admin"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/clients"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/health"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/invites"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/profile"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store    repository.Store
	Sessions *session.Store
	Invites  *invite.Store
	Resolver *authz.Resolver
	Mailer   email.Sender
	Hasher   password.Hasher

	// ─── Configuración ───
	Policy      password.Policy
	BaseURL     string // absolute, used in emailed accept links
	AdminSecret string

	// ─── Health Check ───
	HealthChecks  map[string]health.Pinger
	HealthTimeout time.Duration
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Auth    auth.Services
	Admin   admin.Services
	Invites invites.Services
	Clients clients.Services
	Profile profile.Services
	Health  health.Services
}

func New(d Deps) *Services {
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			Store:    d.Store,
			Sessions: d.Sessions,
			Invites:  d.Invites,
			Hasher:   d.Hasher,
			Policy:   d.Policy,
		}),
		Admin: admin.NewServices(admin.Deps{
			Store:       d.Store,
			Invites:     d.Invites,
			Hasher:      d.Hasher,
			Mailer:      d.Mailer,
			AdminSecret: d.AdminSecret,
			BaseURL:     d.BaseURL,
		}),
		Invites: invites.NewServices(invites.Deps{
			Store:    d.Store,
			Invites:  d.Invites,
			Hasher:   d.Hasher,
			Mailer:   d.Mailer,
			Resolver: d.Resolver,
			BaseURL:  d.BaseURL,
		}),
		Clients: clients.NewServices(clients.Deps{
			Store:   d.Store,
			Invites: d.Invites,
			Hasher:  d.Hasher,
			Mailer:  d.Mailer,
			BaseURL: d.BaseURL,
		}),
		Profile: profile.NewServices(d.Store, d.Resolver),
		Health:  health.NewServices(d.HealthChecks, d.HealthTimeout),
	}
}
