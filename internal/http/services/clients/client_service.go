package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

var ErrNotPrimaryAttorney = errors.New("only the primary attorney may change the frozen state")

type Attorney struct {
	UserID   string
	Email    string
	TenantID string
}

type CreateInput struct {
	Email              string
	Label              string
	RelationshipStatus string
	Residence          repository.Residence
}

type Created struct {
	Client    *repository.Client
	UserID    string
	Token     string
	AcceptURL string
}

type ClientService interface {
	// Create opens a client for the attorney and invites its owner.
	Create(ctx context.Context, by Attorney, in CreateInput) (*Created, error)
	SetFrozen(ctx context.Context, callerID string, c *repository.Client, frozen bool) (*repository.Client, error)
}

type clientService struct {
	d Deps
}

func NewClientService(d Deps) ClientService {
	return &clientService{d: d}
}

func (s *clientService) Create(ctx context.Context, by Attorney, in CreateInput) (*Created, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("clients"),
		logger.Op("Create"),
		logger.TenantID(by.TenantID),
	)
	if by.TenantID == "" {
		return nil, common.ErrActiveTenantRequired
	}
	// fail before writing anything if links cannot be built
	if _, err := email.BuildAcceptURL(s.d.BaseURL, "probe"); err != nil {
		return nil, err
	}

	var user *repository.User
	var client *repository.Client
	err := s.d.Store.InTx(ctx, func(tx repository.Repositories) error {
		u, err := common.CreateInvitedUser(ctx, tx.Users(), s.d.Hasher, in.Email)
		if err != nil {
			return err
		}
		c, err := tx.Clients().Create(ctx, repository.CreateClientInput{
			TenantID:              by.TenantID,
			PrimaryAttorneyUserID: by.UserID,
			Label:                 in.Label,
			RelationshipStatus:    in.RelationshipStatus,
			Residence:             in.Residence,
		})
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		if _, err := tx.ClientAccounts().Create(ctx, repository.ClientAccount{
			TenantID: by.TenantID, ClientID: c.ID, UserID: u.ID, Role: repository.ClientRoleOwner, CanWrite: true,
		}); err != nil {
			return fmt.Errorf("create client account: %w", err)
		}
		user, client = u, c
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrEmailTaken) {
			log.Error("create client tx failed", logger.Err(err))
		}
		return nil, err
	}
	log = log.With(logger.ClientID(client.ID), logger.UserID(user.ID))

	tok, err := common.IssueInvite(ctx, s.d.Invites, invite.Payload{
		UserID: user.ID, TenantID: by.TenantID, ClientID: client.ID, Role: email.InviteClientOwner,
	}, func(ctx context.Context) error {
		if err := s.d.Store.Clients().Delete(ctx, client.ID); err != nil {
			return err
		}
		return s.d.Store.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	acceptURL, _ := email.BuildAcceptURL(s.d.BaseURL, tok)
	common.SendInvite(ctx, s.d.Mailer, email.InviteClientOwner, user.Email, by.Email, email.InviteVars{
		Inviter: by.Email, AcceptURL: acceptURL, ClientLabel: client.Label,
	})

	log.Info("client created")
	return &Created{Client: client, UserID: user.ID, Token: tok, AcceptURL: acceptURL}, nil
}

// SetFrozen runs after the write check passed; only the primary attorney
// may toggle, so frozen data cannot be unfrozen by who it locks out.
func (s *clientService) SetFrozen(ctx context.Context, callerID string, c *repository.Client, frozen bool) (*repository.Client, error) {
	if c.PrimaryAttorneyUserID != callerID {
		return nil, ErrNotPrimaryAttorney
	}
	out, err := s.d.Store.Clients().SetEditingFrozen(ctx, c.ID, frozen)
	if err != nil {
		logger.From(ctx).Error("set frozen failed",
			logger.Layer("service"), logger.Component("clients"), logger.ClientID(c.ID), logger.Err(err))
		return nil, err
	}
	logger.From(ctx).Info("client frozen state changed", logger.ClientID(c.ID), logger.Bool("editing_frozen", frozen))
	return out, nil
}
