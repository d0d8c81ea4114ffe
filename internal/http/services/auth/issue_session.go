package auth

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

// Client is where a session is being opened from.
type Client struct {
	IP        string
	UserAgent string
}

// Issued is a freshly created session. SessionID goes in the cookie only.
type Issued struct {
	SessionID string
	Session   *session.Session
}

// sessionIssuer hydrates a user's access and persists the session. Shared by
// login and register.
type sessionIssuer struct {
	store    repository.Repositories
	sessions *session.Store
}

type access struct {
	memberships []repository.Membership
	grants      []repository.ClientGrant
	accounts    []repository.ClientAccount
}

// hydrate runs the three lookups concurrently.
func (i sessionIssuer) hydrate(ctx context.Context, userID string) (access, error) {
	var a access
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ms, err := i.store.Memberships().ListActiveByUser(gctx, userID)
		a.memberships = ms
		return err
	})
	g.Go(func() error {
		gs, err := i.store.ClientGrants().ListEnabledByUser(gctx, userID)
		a.grants = gs
		return err
	})
	g.Go(func() error {
		as, err := i.store.ClientAccounts().ListEnabledByUser(gctx, userID)
		a.accounts = as
		return err
	})
	if err := g.Wait(); err != nil {
		return access{}, fmt.Errorf("hydrate access: %w", err)
	}
	return a, nil
}

// activeTenant: the hint when the user can act there, else the first
// membership tenant, else the first grant's tenant, else none.
func activeTenant(hint string, u *repository.User, a access) *string {
	if hint != "" && (u.IsSuperuser || a.reaches(hint)) {
		return &hint
	}
	if len(a.memberships) > 0 {
		t := a.memberships[0].TenantID
		return &t
	}
	if len(a.grants) > 0 {
		t := a.grants[0].TenantID
		return &t
	}
	return nil
}

func (a access) reaches(tenantID string) bool {
	for _, m := range a.memberships {
		if m.TenantID == tenantID {
			return true
		}
	}
	for _, g := range a.grants {
		if g.TenantID == tenantID {
			return true
		}
	}
	for _, ca := range a.accounts {
		if ca.TenantID == tenantID {
			return true
		}
	}
	return false
}

func (i sessionIssuer) issue(ctx context.Context, u *repository.User, hint string, c Client, source string) (*Issued, error) {
	a, err := i.hydrate(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	// the hint is filtered: a tenant the user cannot reach falls back to the defaults
	if hint != "" && !u.IsSuperuser && !a.reaches(hint) {
		logger.From(ctx).Info("tenant hint ignored", logger.UserID(u.ID), logger.TenantID(hint))
	}
	sid, sess, err := i.sessions.Create(ctx, session.NewSession{
		UserID:         u.ID,
		Email:          u.Email,
		IsSuperuser:    u.IsSuperuser,
		Memberships:    a.memberships,
		ClientGrants:   a.grants,
		ClientAccounts: a.accounts,
		ActiveTenant:   activeTenant(hint, u, a),
		IP:             c.IP,
		UserAgent:      c.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionsCreated.WithLabelValues(source).Inc()
	return &Issued{SessionID: sid, Session: sess}, nil
}
