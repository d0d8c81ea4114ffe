package invites

import (
	"context"
	"fmt"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// Inviter is who sends the invite.
type Inviter struct {
	authz.Caller
	Email    string
	TenantID string
}

type Invited struct {
	UserID string
	Token  string
}

type InviteService interface {
	Attorney(ctx context.Context, by Inviter, emailAddr string) (*Invited, error)
	Client(ctx context.Context, by Inviter, emailAddr, clientID string) (*Invited, error)
	// Delegate requires write access to the client; denials come back as
	// the authz sentinel errors.
	Delegate(ctx context.Context, by Inviter, emailAddr, clientID, role string) (*Invited, error)
}

type inviteService struct {
	d Deps
}

func NewInviteService(d Deps) InviteService {
	return &inviteService{d: d}
}

func (s *inviteService) Attorney(ctx context.Context, by Inviter, emailAddr string) (*Invited, error) {
	if by.TenantID == "" {
		return nil, common.ErrActiveTenantRequired
	}
	tenantName := ""
	if t, err := s.d.Store.Tenants().GetByID(ctx, by.TenantID); err == nil {
		tenantName = t.DisplayName
	}
	return s.invite(ctx, "Attorney", by, emailAddr,
		func(tx repository.Repositories, u *repository.User) error {
			return tx.Memberships().Create(ctx, repository.Membership{
				TenantID: by.TenantID, UserID: u.ID, Role: repository.RoleAttorneyOwner,
			})
		},
		invite.Payload{TenantID: by.TenantID, Role: repository.RoleAttorneyOwner},
		email.InviteAttorneyOwner, email.InviteVars{TenantName: tenantName})
}

func (s *inviteService) Client(ctx context.Context, by Inviter, emailAddr, clientID string) (*Invited, error) {
	if by.TenantID == "" {
		return nil, common.ErrActiveTenantRequired
	}
	c, err := s.tenantClient(ctx, by.TenantID, clientID)
	if err != nil {
		return nil, err
	}
	return s.invite(ctx, "Client", by, emailAddr,
		func(tx repository.Repositories, u *repository.User) error {
			_, err := tx.ClientAccounts().Create(ctx, repository.ClientAccount{
				TenantID: by.TenantID, ClientID: c.ID, UserID: u.ID, Role: repository.ClientRoleOwner, CanWrite: true,
			})
			return err
		},
		invite.Payload{TenantID: by.TenantID, ClientID: c.ID, Role: email.InviteClientOwner},
		email.InviteClientOwner, email.InviteVars{ClientLabel: c.Label})
}

func (s *inviteService) Delegate(ctx context.Context, by Inviter, emailAddr, clientID, role string) (*Invited, error) {
	if by.TenantID == "" {
		return nil, common.ErrActiveTenantRequired
	}
	d, err := s.d.Resolver.Check(ctx, by.Caller, clientID, authz.Write)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, d.Err()
	}
	c := d.Client
	if c.TenantID != by.TenantID {
		return nil, ErrClientNotInTenant
	}
	return s.invite(ctx, "Delegate", by, emailAddr,
		func(tx repository.Repositories, u *repository.User) error {
			_, err := tx.ClientAccounts().Create(ctx, repository.ClientAccount{
				TenantID: c.TenantID, ClientID: c.ID, UserID: u.ID, Role: role,
				CanWrite: role != repository.ClientRoleDelegate,
			})
			return err
		},
		invite.Payload{TenantID: c.TenantID, ClientID: c.ID, Role: role},
		role, email.InviteVars{ClientLabel: c.Label, RoleLabel: role})
}

// tenantClient loads clientID and hides clients of other tenants.
func (s *inviteService) tenantClient(ctx context.Context, tenantID, clientID string) (*repository.Client, error) {
	c, err := s.d.Store.Clients().GetByID(ctx, clientID)
	if repository.IsNotFound(err) {
		return nil, ErrClientNotInTenant
	}
	if err != nil {
		return nil, err
	}
	if c.TenantID != tenantID {
		return nil, ErrClientNotInTenant
	}
	return c, nil
}

// invite runs the common sequence: invited user plus link row in one tx,
// the token after commit (undone by deleting the user), then the email.
func (s *inviteService) invite(
	ctx context.Context,
	op string,
	by Inviter,
	emailAddr string,
	link func(tx repository.Repositories, u *repository.User) error,
	p invite.Payload,
	kind string,
	vars email.InviteVars,
) (*Invited, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("invites"),
		logger.Op(op),
		logger.TenantID(by.TenantID),
	)

	var user *repository.User
	err := s.d.Store.InTx(ctx, func(tx repository.Repositories) error {
		u, err := common.CreateInvitedUser(ctx, tx.Users(), s.d.Hasher, emailAddr)
		if err != nil {
			return err
		}
		if err := link(tx, u); err != nil {
			return fmt.Errorf("link invited user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.UserID = user.ID
	tok, err := common.IssueInvite(ctx, s.d.Invites, p, func(ctx context.Context) error {
		return s.d.Store.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	if acceptURL, err := email.BuildAcceptURL(s.d.BaseURL, tok); err == nil {
		vars.Inviter = by.Email
		vars.AcceptURL = acceptURL
		common.SendInvite(ctx, s.d.Mailer, kind, user.Email, by.Email, vars)
	} else {
		log.Warn("accept url not built, invite email skipped", logger.Err(err))
	}

	log.Info("invite issued", logger.UserID(user.ID), logger.Role(p.Role))
	return &Invited{UserID: user.ID, Token: tok}, nil
}
