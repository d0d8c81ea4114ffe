package auth

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

// Invite roles that enable a client account on acceptance.
var clientInviteRoles = map[string]bool{
	"client_owner":                true,
	repository.ClientRoleOwner:    true,
	repository.ClientRoleSpouse:   true,
	repository.ClientRoleDelegate: true,
}

type AcceptInviteService interface {
	// Accept activates the invited account. It does not sign the user in.
	Accept(ctx context.Context, token, newPassword string) (*repository.User, error)
}

type acceptInviteService struct {
	store   repository.Store
	invites *invite.Store
	hasher  password.Hasher
	policy  password.Policy
}

func NewAcceptInviteService(store repository.Store, invites *invite.Store, hasher password.Hasher, policy password.Policy) AcceptInviteService {
	return &acceptInviteService{store: store, invites: invites, hasher: hasher, policy: policy}
}

func (s *acceptInviteService) Accept(ctx context.Context, token, newPassword string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.accept_invite"),
		logger.Op("Accept"),
	)

	if err := s.policy.Validate(newPassword); err != nil {
		return nil, err
	}
	// hash before consuming so a hashing failure never burns the token
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("hash failed", logger.Err(err))
		return nil, err
	}

	c, err := s.invites.Consume(ctx, token)
	if errors.Is(err, invite.ErrNotFound) {
		metrics.InvitesConsumed.WithLabelValues("invalid").Inc()
		return nil, ErrInviteInvalid
	}
	if err != nil {
		log.Error("invite consume failed", logger.Err(err))
		return nil, err
	}
	p := c.Payload
	log = log.With(logger.UserID(p.UserID), logger.Role(p.Role))

	var user *repository.User
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		u, err := tx.Users().Activate(ctx, p.UserID, hash)
		if err != nil {
			return err
		}
		user = u

		switch {
		case p.Role == repository.RoleAttorneyOwner && p.TenantID != "":
			err = tx.Memberships().Activate(ctx, p.TenantID, p.UserID, p.Role)
		case clientInviteRoles[p.Role] && p.ClientID != "":
			err = tx.ClientAccounts().Enable(ctx, p.UserID, p.ClientID)
		}
		if repository.IsNotFound(err) {
			log.Warn("invite target row missing, user activated only",
				logger.TenantID(p.TenantID), logger.ClientID(p.ClientID))
			return nil
		}
		return err
	})
	if repository.IsNotFound(err) {
		// the invited user no longer exists; the token is spent for good
		metrics.InvitesConsumed.WithLabelValues("invalid").Inc()
		return nil, ErrInviteInvalid
	}
	if err != nil {
		log.Error("activation failed, restoring invite", logger.Err(err))
		if rerr := c.Restore(context.WithoutCancel(ctx)); rerr != nil {
			log.Error("invite restore failed", logger.Err(rerr))
		} else {
			metrics.InvitesConsumed.WithLabelValues("restored").Inc()
		}
		return nil, err
	}

	metrics.InvitesConsumed.WithLabelValues("accepted").Inc()
	log.Info("invite accepted")
	return user, nil
}
