// Package admin contiene los services de bootstrap de superuser y onboarding
// de tenants.
package admin

import (
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

var (
	ErrSecretNotConfigured = errors.New("admin secret not configured")
	ErrBadSecret           = errors.New("admin secret mismatch")
)

type Deps struct {
	Store       repository.Store
	Invites     *invite.Store
	Hasher      password.Hasher
	Mailer      email.Sender
	AdminSecret string
	BaseURL     string
}

type Services struct {
	Superuser  SuperuserService
	Onboarding OnboardingService
}

func NewServices(d Deps) Services {
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	return Services{
		Superuser:  NewSuperuserService(d.Store.Users(), d.Hasher, d.AdminSecret),
		Onboarding: NewOnboardingService(d),
	}
}
