package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// =================================================================================
// GUARDS
// =================================================================================

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFrom(r.Context()); !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperuser allows only superuser sessions.
func RequireSuperuser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !id.IsSuperuser {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("superuser only"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenantRole requires a membership in the active tenant with one of
// roles. Superusers pass.
func RequireTenantRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if id.IsSuperuser {
				next.ServeHTTP(w, r)
				return
			}
			if id.ActiveTenant == "" {
				httperrors.WriteError(w, httperrors.ErrActiveTenantRequired)
				return
			}
			if !id.HasRole(id.ActiveTenant, roles...) {
				logger.From(r.Context()).Debug("tenant role denied",
					logger.TenantID(id.ActiveTenant), logger.Strings("required", roles))
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PermissionChecker resolves a client-scoped action.
type PermissionChecker interface {
	Check(ctx context.Context, caller authz.Caller, clientID string, action authz.Action) (authz.Decision, error)
}

// ClientIDParam is the route parameter naming the target client.
const ClientIDParam = "clientID"

// RequireClientPermission checks action on the {clientID} route param and
// stores the Decision for the handler. Only NotFound and Frozen are told to
// the caller; other denials are a generic 403.
func RequireClientPermission(checker PermissionChecker, action authz.Action) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			clientID := strings.TrimSpace(chi.URLParam(r, ClientIDParam))
			if clientID == "" {
				httperrors.WriteError(w, httperrors.ErrBadRequest.WithMessage("client_id required"))
				return
			}

			log := logger.From(r.Context()).With(logger.ClientID(clientID), logger.Action(string(action)))
			d, err := checker.Check(r.Context(), id.Caller(), clientID, action)
			if err != nil {
				log.Error("permission check failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
				return
			}

			if !d.Allowed {
				metrics.AuthzDecisions.WithLabelValues(string(action), string(d.Reason)).Inc()
				log.Info("client access denied", logger.Reason(string(d.Reason)))
				switch d.Reason {
				case authz.ReasonNotFound:
					httperrors.WriteError(w, httperrors.ErrClientNotFound)
				case authz.ReasonFrozen:
					httperrors.WriteError(w, httperrors.ErrClientFrozen)
				default:
					httperrors.WriteError(w, httperrors.ErrForbidden)
				}
				return
			}

			metrics.AuthzDecisions.WithLabelValues(string(action), string(d.Via)).Inc()
			next.ServeHTTP(w, r.WithContext(withDecision(r.Context(), d)))
		})
	}
}
