package admin

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

type OnboardInput struct {
	Email        string
	DisplayName  string
	InviterEmail string
}

type Onboarded struct {
	TenantID string
	UserID   string
	Token    string
}

type OnboardingService interface {
	// Onboard creates an invited attorney owning a new tenant.
	Onboard(ctx context.Context, in OnboardInput) (*Onboarded, error)
}

type onboardingService struct {
	d Deps
}

func NewOnboardingService(d Deps) OnboardingService {
	return &onboardingService{d: d}
}

func (s *onboardingService) Onboard(ctx context.Context, in OnboardInput) (*Onboarded, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.onboarding"),
		logger.Op("Onboard"),
	)

	var user *repository.User
	var tenant *repository.Tenant
	err := s.d.Store.InTx(ctx, func(tx repository.Repositories) error {
		u, err := common.CreateInvitedUser(ctx, tx.Users(), s.d.Hasher, in.Email)
		if err != nil {
			return err
		}
		t, err := tx.Tenants().Create(ctx, u.ID, in.DisplayName)
		if err != nil {
			return err
		}
		if err := tx.Memberships().Create(ctx, repository.Membership{
			TenantID: t.ID, UserID: u.ID, Role: repository.RoleAttorneyOwner, IsActive: false,
		}); err != nil {
			return err
		}
		user, tenant = u, t
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrEmailTaken) {
			log.Error("onboarding tx failed", logger.Err(err))
		}
		return nil, err
	}
	log = log.With(logger.TenantID(tenant.ID), logger.UserID(user.ID))

	// deleting the user cascades to its tenant and membership
	tok, err := common.IssueInvite(ctx, s.d.Invites, invite.Payload{
		UserID: user.ID, TenantID: tenant.ID, Role: repository.RoleAttorneyOwner,
	}, func(ctx context.Context) error { return s.d.Store.Users().Delete(ctx, user.ID) })
	if err != nil {
		return nil, err
	}

	if acceptURL, err := email.BuildAcceptURL(s.d.BaseURL, tok); err == nil {
		common.SendInvite(ctx, s.d.Mailer, email.InviteAttorneyOwner, user.Email, in.InviterEmail, email.InviteVars{
			Inviter: in.InviterEmail, AcceptURL: acceptURL, TenantName: tenant.DisplayName,
		})
	} else {
		log.Warn("accept url not built, invite email skipped", logger.Err(err))
	}

	log.Info("tenant onboarded")
	return &Onboarded{TenantID: tenant.ID, UserID: user.ID, Token: tok}, nil
}
