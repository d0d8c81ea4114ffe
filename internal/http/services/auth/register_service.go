package auth

import (
	"context"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

type RegisterInput struct {
	Email    string
	Password string
	Client   Client
}

type RegisterService interface {
	Register(ctx context.Context, in RegisterInput) (*Issued, error)
}

type registerService struct {
	users  repository.UserRepository
	hasher password.Hasher
	policy password.Policy
	issuer sessionIssuer
}

func NewRegisterService(users repository.UserRepository, hasher password.Hasher, policy password.Policy, issuer sessionIssuer) RegisterService {
	return &registerService{users: users, hasher: hasher, policy: policy, issuer: issuer}
}

// Register creates an active user and signs it in. Policy violations come
// back as *password.PolicyError, a taken email as common.ErrEmailTaken.
func (s *registerService) Register(ctx context.Context, in RegisterInput) (*Issued, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	if err := s.policy.Validate(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("hash failed", logger.Err(err))
		return nil, err
	}

	u, err := s.users.Create(ctx, repository.CreateUserInput{
		Email:        common.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Status:       repository.UserStatusActive,
	})
	if repository.IsConflict(err) {
		return nil, common.ErrEmailTaken
	}
	if err != nil {
		log.Error("create user failed", logger.Err(err))
		return nil, err
	}

	issued, err := s.issuer.issue(ctx, u, "", in.Client, "register")
	if err != nil {
		log.Error("session issue failed", logger.UserID(u.ID), logger.Err(err))
		return nil, err
	}
	log.Info("user registered", logger.UserID(u.ID))
	return issued, nil
}
