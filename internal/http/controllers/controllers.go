// Package controllers agrupa todos los controllers HTTP. Es el composition
// root de controllers: cada dominio tiene su sub-paquete y New los crea a
// partir de los services ya armados.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs, cookie)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/admin"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/clients"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/health"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/invites"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/profile"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services"
)

// Controllers agrupa los controllers por dominio.
type Controllers struct {
	Auth    *auth.Controllers
	Admin   *admin.Controllers
	Invites *invites.InvitesController
	Clients *clients.ClientsController
	Profile *profile.ProfileController
	Health  *health.HealthController
}

// New crea todos los controllers. Es el único lugar donde se instancian.
func New(svc *services.Services, cookie helpers.CookieConfig) *Controllers {
	return &Controllers{
		Auth:    auth.NewControllers(svc.Auth, cookie),
		Admin:   admin.NewControllers(svc.Admin),
		Invites: invites.NewInvitesController(svc.Invites),
		Clients: clients.NewClientsController(svc.Clients),
		Profile: profile.NewProfileController(svc.Profile),
		Health:  health.NewHealthController(svc.Health),
	}
}
