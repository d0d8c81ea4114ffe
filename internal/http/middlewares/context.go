package middlewares

import (
	"context"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxIdentityKey  ctxKey = "identity"
	ctxDecisionKey  ctxKey = "authz_decision"
)

// Identity is the authenticated caller, resolved once per request by
// WithSession. It is a value; handlers get a copy.
type Identity struct {
	SessionID  string
	SessionKey string

	UserID         string
	Email          string
	IsSuperuser    bool
	TenantIDs      []string
	Roles          []string
	Memberships    []repository.Membership
	ClientGrants   []repository.ClientGrant
	ClientAccounts []repository.ClientAccount

	// ActiveTenant is the tenant for this request, "" when none resolved.
	ActiveTenant string
}

// HasRole reports whether the user holds one of roles in tenantID.
func (id Identity) HasRole(tenantID string, roles ...string) bool {
	for _, m := range id.Memberships {
		if m.TenantID != tenantID {
			continue
		}
		for _, r := range roles {
			if m.Role == r {
				return true
			}
		}
	}
	return false
}

// Caller is the identity as the authorization resolver sees it.
func (id Identity) Caller() authz.Caller {
	return authz.Caller{UserID: id.UserID, Grants: id.ClientGrants}
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// WithIdentity attaches id to ctx. Exposed for tests of downstream handlers.
func WithIdentity(ctx context.Context, id Identity) context.Context { return withIdentity(ctx, id) }

// IdentityFrom returns the caller, ok=false for anonymous requests.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey).(Identity)
	return id, ok
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID returns "" when WithRequestID did not run.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}

func withDecision(ctx context.Context, d authz.Decision) context.Context {
	return context.WithValue(ctx, ctxDecisionKey, d)
}

// DecisionFrom returns the decision RequireClientPermission made for this request.
func DecisionFrom(ctx context.Context) (authz.Decision, bool) {
	d, ok := ctx.Value(ctxDecisionKey).(authz.Decision)
	return d, ok
}
