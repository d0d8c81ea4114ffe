// Package server arma el handler HTTP a partir de la config y sirve con
// shutdown ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
	"github.com/Project-Legacy-LA/legacy-la/internal/config"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	mw "github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/router"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/health"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/rate"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
	"github.com/Project-Legacy-LA/legacy-la/internal/store"
)

// App is the wired service. Close releases what Build opened, in reverse.
type App struct {
	Handler http.Handler
	Store   repository.Store
	Cache   cache.Client

	closers []func() error
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Options overrides pieces Build would otherwise create. Tests use it to
// inject a store or a private registry.
type Options struct {
	Store    repository.Store
	Cache    cache.Client
	Mailer   email.Sender
	Hasher   password.Hasher
	Registry *prometheus.Registry
}

// Build wires store, cache, services, controllers and router from cfg.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))
	app := &App{}

	// 1. Store
	st := opts.Store
	if st == nil {
		var err error
		scfg := store.Config{
			Driver:      cfg.Storage.Driver,
			DSN:         cfg.Storage.DSN,
			AutoMigrate: cfg.Storage.AutoMigrate,
		}
		scfg.Postgres.MaxConns = cfg.Storage.Postgres.MaxConns
		scfg.Postgres.MinConns = cfg.Storage.Postgres.MinConns
		st, err = store.Open(ctx, scfg)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		app.closers = append(app.closers, func() error { st.Close(); return nil })
	}
	app.Store = st

	// 2. Cache (sesiones, invites, rate)
	c := opts.Cache
	if c == nil {
		var err error
		c, err = cache.New(ctx, cache.Config{
			Driver:     cfg.Cache.Kind,
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			Prefix:     cfg.Cache.Redis.Prefix,
			DefaultTTL: cfg.Cache.Memory.DefaultTTL,
		})
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("cache: %w", err)
		}
		app.closers = append(app.closers, c.Close)
	}
	app.Cache = c

	sessions := session.NewStore(c, session.Options{
		TTL:           cfg.Auth.Session.TTL,
		TouchInterval: cfg.Auth.Session.TouchInterval,
	})
	invites := invite.NewStore(c, cfg.Auth.InviteTTL)
	resolver := authz.NewResolver(st.Clients(), st.ClientAccounts())

	// 3. Email
	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.FromConfig(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			From:               cfg.SMTP.From,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		})
	}
	if _, ok := mailer.(email.LogSender); ok {
		log.Warn("smtp not configured, invite emails will only be logged")
	}

	// 4. Services y controllers
	policy := password.DefaultPolicy
	policy.MinLength = cfg.Auth.PasswordMinLength

	svcs := services.New(services.Deps{
		Store:       st,
		Sessions:    sessions,
		Invites:     invites,
		Resolver:    resolver,
		Mailer:      mailer,
		Hasher:      opts.Hasher,
		Policy:      policy,
		BaseURL:     cfg.App.BaseURL,
		AdminSecret: cfg.App.AdminSecret,
		HealthChecks: map[string]health.Pinger{
			"database": st,
			"cache":    c,
		},
	})

	cookie := helpers.CookieConfig{
		Name:     cfg.Auth.Session.CookieName,
		Domain:   cfg.Auth.Session.Domain,
		SameSite: cfg.Auth.Session.SameSite,
		Secure:   cfg.CookieSecure(),
		TTL:      sessions.TTL(),
	}
	ctrls := controllers.New(svcs, cookie)

	// 5. Metrics
	var httpMetrics *mw.HTTPMetrics
	var err error
	if opts.Registry != nil {
		httpMetrics, err = mw.NewHTTPMetrics(opts.Registry, opts.Registry)
	} else {
		httpMetrics, err = mw.DefaultHTTPMetrics()
	}
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 6. Rate limiting
	deps := router.Deps{
		Controllers: ctrls,
		Sessions:    sessions,
		Cookie:      cookie,
		Checker:     resolver,
		Metrics:     httpMetrics,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	}
	if cfg.Rate.Enabled {
		deps.Limiter = newLimiter(app, c, "rl:api", cfg.Rate.MaxRequests, cfg.Rate.Window)
		deps.LoginLimiter = newLimiter(app, c, "rl:login", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		log.Info("rate limiting enabled",
			logger.Int("max_requests", cfg.Rate.MaxRequests),
			logger.Int("login_limit", cfg.Rate.Login.Limit))
	}

	app.Handler = router.New(deps)
	log.Info("service wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("cookie_secure", cookie.Secure))
	return app, nil
}

// newLimiter registers the in-process limiter janitor for Close.
func newLimiter(app *App, c cache.Client, prefix string, max int, window time.Duration) rate.Limiter {
	l := rate.ForCache(c, prefix, max, window)
	if ml, ok := l.(*rate.MemoryLimiter); ok {
		app.closers = append(app.closers, ml.Close)
	}
	return l
}
