// Package router registra todas las rutas sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	mw "github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	"github.com/Project-Legacy-LA/legacy-la/internal/rate"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Controllers *controllers.Controllers

	Sessions mw.SessionReader
	Cookie   helpers.CookieConfig
	Checker  mw.PermissionChecker

	// Opcionales
	Metrics       *mw.HTTPMetrics
	Limiter       rate.Limiter // every /api/v1 request, keyed by IP
	LoginLimiter  rate.Limiter // login, keyed by IP and email
	RateWhitelist []string
	CORSOrigins   []string
}

// New builds the root handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover(), mw.WithRequestID(), mw.WithLogging(), mw.WithSecurityHeaders())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(mw.WithCORS(d.CORSOrigins))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithMessage("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(mw.WithNoStore())
		if d.Limiter != nil {
			api.Use(mw.WithRateLimit(mw.RateLimitConfig{
				Limiter:   d.Limiter,
				KeyFunc:   mw.IPOnlyRateKey,
				Whitelist: d.RateWhitelist,
			}))
		}

		// Sin sesion: un sid muerto en el browser no puede bloquear login,
		// registro ni aceptar un invite. Logout lee la cookie por su cuenta.
		registerPublicAuthRoutes(api, d)

		api.Group(func(api chi.Router) {
			api.Use(mw.WithSession(mw.SessionConfig{Store: d.Sessions, Cookie: d.Cookie}))

			registerSessionRoutes(api, d)
			registerAdminRoutes(api, d)
			registerInviteRoutes(api, d)
			registerClientRoutes(api, d)
			registerProfileRoutes(api, d)
		})
	})
	return r
}

func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Health
	r.Get("/healthz", c.Live)
	r.Get("/readyz", c.Ready)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
}

func registerPublicAuthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth

	r.Post("/auth/logout", c.Logout.Logout)
	r.Post("/auth/register", c.Register.Register)
	r.Post("/auth/accept-invite", c.AcceptInvite.Accept)

	login := r
	if d.LoginLimiter != nil {
		login = r.With(mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:   d.LoginLimiter,
			KeyFunc:   mw.LoginRateKey,
			Whitelist: d.RateWhitelist,
		}))
	}
	login.Post("/auth/login", c.Login.Login)

	// Guarded by X-Admin-Secret, not by a session.
	r.Post("/users/superuser", d.Controllers.Admin.Superuser.Create)
}

func registerSessionRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth

	authed := r.With(mw.RequireAuth())
	authed.Get("/auth/me", c.Session.Me)
	authed.Get("/auth/sessions", c.Session.List)
	authed.Delete("/auth/sessions", c.Session.RevokeAll)
	authed.Delete("/auth/sessions/{sessionID}", c.Session.Revoke)
}

func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Admin
	r.With(mw.RequireAuth(), mw.RequireSuperuser()).Post("/tenants/onboard", c.Onboarding.Onboard)
}

func registerInviteRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Invites

	r.Route("/invites", func(r chi.Router) {
		r.Use(mw.RequireAuth())
		r.With(mw.RequireTenantRole(repository.RoleAttorneyOwner)).Post("/attorney", c.Attorney)
		r.With(mw.RequireTenantRole(repository.RoleAttorneyOwner)).Post("/client", c.Client)
		// clientId viaja en el body; el permiso lo chequea el service.
		r.Post("/delegate", c.Delegate)
	})
}

func registerClientRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Clients

	r.Route("/clients", func(r chi.Router) {
		r.Use(mw.RequireAuth())
		r.With(mw.RequireTenantRole(repository.RoleAttorneyOwner)).Post("/", c.Create)

		r.Route("/{"+mw.ClientIDParam+"}", func(r chi.Router) {
			r.With(mw.RequireClientPermission(d.Checker, authz.Read)).Get("/", c.Get)
			r.With(mw.RequireClientPermission(d.Checker, authz.Write)).Put("/frozen", c.SetFrozen)
		})
	})
}

func registerProfileRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Profile

	r.Route("/profile", func(r chi.Router) {
		r.Use(mw.RequireAuth())
		r.Get("/me", c.Get)
		r.Put("/me", c.Update)
	})
}
