// Package auth contiene los services de autenticación: login, logout,
// register, aceptación de invites y gestión de sesiones.
package auth

import (
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

// Errores de auth
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInviteInvalid      = errors.New("invite expired or invalid")
	ErrSessionNotFound    = errors.New("session not found")
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Store    repository.Store
	Sessions *session.Store
	Invites  *invite.Store
	Hasher   password.Hasher
	Policy   password.Policy
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login        LoginService
	Logout       LogoutService
	Register     RegisterService
	AcceptInvite AcceptInviteService
	Sessions     SessionService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	if d.Policy.MinLength == 0 {
		d.Policy = password.DefaultPolicy
	}
	issuer := sessionIssuer{store: d.Store, sessions: d.Sessions}
	return Services{
		Login:        NewLoginService(d.Store.Users(), d.Hasher, issuer),
		Logout:       NewLogoutService(d.Sessions),
		Register:     NewRegisterService(d.Store.Users(), d.Hasher, d.Policy, issuer),
		AcceptInvite: NewAcceptInviteService(d.Store, d.Invites, d.Hasher, d.Policy),
		Sessions:     NewSessionService(d.Sessions),
	}
}
