package auth

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

type LoginInput struct {
	Email      string
	Password   string
	TenantHint string
	Client     Client
}

type LoginService interface {
	Login(ctx context.Context, in LoginInput) (*Issued, error)
}

type loginService struct {
	users  repository.UserRepository
	hasher password.Hasher
	issuer sessionIssuer
}

func NewLoginService(users repository.UserRepository, hasher password.Hasher, issuer sessionIssuer) LoginService {
	return &loginService{users: users, hasher: hasher, issuer: issuer}
}

// Login checks status before the password, so a disabled account reports
// ErrAccountDisabled even with a wrong password.
func (s *loginService) Login(ctx context.Context, in LoginInput) (*Issued, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	email := common.NormalizeEmail(in.Email)
	u, err := s.users.FindByEmail(ctx, email)
	if repository.IsNotFound(err) {
		log.Debug("user not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}
	log = log.With(logger.UserID(u.ID))

	if !u.IsActive() {
		log.Info("login on disabled account")
		return nil, ErrAccountDisabled
	}

	if err := s.hasher.Verify(u.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			log.Warn("stored hash unusable", logger.Err(err))
		}
		return nil, ErrInvalidCredentials
	}

	issued, err := s.issuer.issue(ctx, u, in.TenantHint, in.Client, "login")
	if err != nil {
		log.Error("session issue failed", logger.Err(err))
		return nil, err
	}
	log.Info("login ok")
	return issued, nil
}
