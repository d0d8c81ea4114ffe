// Package profile contiene el service del perfil del usuario (persona y
// residencia del expediente principal).
package profile

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoWorkspace  = errors.New("client workspace not found")
)

type Profile struct {
	Person *repository.Person
	Client *repository.Client
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	// Update upserts the user's person and sets the workspace residence.
	// The residence is client data, so the caller needs write access to the
	// workspace client; a frozen client is authz.ErrFrozen.
	Update(ctx context.Context, caller authz.Caller, p repository.Person, r repository.Residence) (*Profile, error)
}

type Services struct {
	Profile ProfileService
}

func NewServices(store repository.Store, resolver *authz.Resolver) Services {
	if resolver == nil {
		resolver = authz.NewResolver(store.Clients(), store.ClientAccounts())
	}
	return Services{Profile: &profileService{store: store, resolver: resolver}}
}

type profileService struct {
	store    repository.Store
	resolver *authz.Resolver
}

func (s *profileService) Get(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var out Profile
	if u.PersonID != nil {
		p, err := s.store.Persons().GetByID(ctx, *u.PersonID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		out.Person = p
	}
	c, err := s.store.Clients().FindPrimaryForUser(ctx, userID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	out.Client = c
	return &out, nil
}

func (s *profileService) Update(ctx context.Context, caller authz.Caller, p repository.Person, r repository.Residence) (*Profile, error) {
	userID := caller.UserID
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("profile"),
		logger.Op("Update"),
		logger.UserID(userID),
	)

	ws, err := s.store.Clients().FindPrimaryForUser(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrNoWorkspace
	}
	if err != nil {
		return nil, err
	}
	d, err := s.resolver.Check(ctx, caller, ws.ID, authz.Write)
	if err != nil {
		log.Error("profile authz check failed", logger.Err(err))
		return nil, err
	}
	if !d.Allowed {
		log.Warn("profile update denied", logger.ClientID(ws.ID), logger.String("reason", string(d.Reason)))
		return nil, d.Err()
	}

	var out Profile
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		c, err := tx.Clients().GetByID(ctx, ws.ID)
		if repository.IsNotFound(err) {
			return ErrNoWorkspace
		}
		if err != nil {
			return err
		}
		// frozen after the check: only the primary attorney may still write
		if c.EditingFrozen && d.Via != authz.ViaPrimaryAttorney {
			return authz.ErrFrozen
		}

		if u.PersonID != nil {
			p.ID = *u.PersonID
			out.Person, err = tx.Persons().Update(ctx, p)
		} else {
			p.TenantID = c.TenantID
			out.Person, err = tx.Persons().Create(ctx, p)
			if err == nil {
				err = tx.Users().AttachPerson(ctx, userID, out.Person.ID)
			}
		}
		if err != nil {
			return err
		}

		out.Client, err = tx.Clients().UpdateResidence(ctx, c.ID, r)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrNoWorkspace) && !errors.Is(err, authz.ErrFrozen) {
			log.Error("profile update failed", logger.Err(err))
		}
		return nil, err
	}
	log.Info("profile updated")
	return &out, nil
}
