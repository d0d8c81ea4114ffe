// Package auth contiene los controllers de /auth.
package auth

import (
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
)

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login        *LoginController
	Logout       *LogoutController
	Register     *RegisterController
	AcceptInvite *AcceptInviteController
	Session      *SessionController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, cookie helpers.CookieConfig) *Controllers {
	return &Controllers{
		Login:        NewLoginController(s.Login, cookie),
		Logout:       NewLogoutController(s.Logout, cookie),
		Register:     NewRegisterController(s.Register, cookie),
		AcceptInvite: NewAcceptInviteController(s.AcceptInvite),
		Session:      NewSessionController(s.Sessions, cookie),
	}
}
