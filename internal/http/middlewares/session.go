package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

// TenantHeader carries the per-request tenant override.
const TenantHeader = "X-Tenant-ID"

// SessionReader is the part of the session store the middleware needs.
type SessionReader interface {
	Get(ctx context.Context, sid string) (*session.Session, error)
	Touch(ctx context.Context, sess *session.Session) (bool, error)
}

type SessionConfig struct {
	Store  SessionReader
	Cookie helpers.CookieConfig
}

// WithSession resolves the caller from the session cookie.
//
//   - no cookie: the request continues anonymous
//   - unknown or expired sid: 401, and the cookie is cleared
//   - store failure: 500
//
// On success the Identity is attached to the context and, when a tenant
// resolves, the acting identity is bound for the data layer. When Touch
// slides the server-side expiry the cookie is re-issued with a fresh Max-Age.
func WithSession(cfg SessionConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := cfg.Cookie.Read(r)
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := logger.From(ctx).With(logger.Layer("middleware"), logger.Component("session"))

			sess, err := cfg.Store.Get(ctx, sid)
			if errors.Is(err, session.ErrNotFound) {
				http.SetCookie(w, cfg.Cookie.Clear())
				httperrors.WriteError(w, httperrors.ErrSessionExpired)
				return
			}
			if err != nil {
				log.Error("session lookup failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
				return
			}

			active, ok := resolveTenant(r.Header.Get(TenantHeader), sess)
			if !ok {
				log.Warn("tenant override rejected", logger.UserID(sess.UserID), logger.TenantID(r.Header.Get(TenantHeader)))
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}

			id := identityFromSession(sess, active)
			ctx = withIdentity(ctx, id)
			if active != "" {
				ctx = repository.WithActor(ctx, repository.Actor{TenantID: active, UserID: id.UserID})
			}
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(id.UserID)))

			touched, err := cfg.Store.Touch(ctx, sess)
			switch {
			case errors.Is(err, session.ErrNotFound):
				// revocado mientras el request estaba en vuelo
				http.SetCookie(w, cfg.Cookie.Clear())
				httperrors.WriteError(w, httperrors.ErrSessionExpired)
				return
			case err != nil:
				log.Warn("session touch failed", logger.UserID(id.UserID), logger.Err(err))
			case touched:
				http.SetCookie(w, cfg.Cookie.Build(sid))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveTenant picks the request tenant: header override, then the
// stored active tenant, then the first membership tenant. An override naming
// a tenant the session cannot act in is refused unless superuser.
func resolveTenant(override string, sess *session.Session) (string, bool) {
	if override = strings.TrimSpace(override); override != "" {
		if !sess.IsSuperuser && !canActIn(sess, override) {
			return "", false
		}
		return override, true
	}
	if sess.ActiveTenant != nil && *sess.ActiveTenant != "" {
		return *sess.ActiveTenant, true
	}
	if len(sess.TenantIDs) > 0 {
		return sess.TenantIDs[0], true
	}
	return "", true
}

// canActIn: a membership, client grant or client account in tenantID.
func canActIn(sess *session.Session, tenantID string) bool {
	if sess.HasTenant(tenantID) {
		return true
	}
	for _, g := range sess.ClientGrants {
		if g.TenantID == tenantID {
			return true
		}
	}
	for _, a := range sess.ClientAccounts {
		if a.TenantID == tenantID {
			return true
		}
	}
	return false
}

func identityFromSession(sess *session.Session, active string) Identity {
	return Identity{
		SessionID:      sess.ID,
		SessionKey:     sess.Key,
		UserID:         sess.UserID,
		Email:          sess.Email,
		IsSuperuser:    sess.IsSuperuser,
		TenantIDs:      append([]string(nil), sess.TenantIDs...),
		Roles:          append([]string(nil), sess.Roles...),
		Memberships:    append([]repository.Membership(nil), sess.Memberships...),
		ClientGrants:   append([]repository.ClientGrant(nil), sess.ClientGrants...),
		ClientAccounts: append([]repository.ClientAccount(nil), sess.ClientAccounts...),
		ActiveTenant:   active,
	}
}
